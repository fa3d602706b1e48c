package handler

import (
	"net/http"
	"sync"

	"innkeeper/config"
	"innkeeper/di"
	"innkeeper/shared/logger"
)

var (
	once    sync.Once
	service http.Handler
)

// Handler is the serverless entrypoint. The service graph is built once per
// runtime instance and reused across invocations.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()
		logger.SetLogLevel(cfg)

		service = di.InitializeService().Handler()
	})

	service.ServeHTTP(w, r)
}
