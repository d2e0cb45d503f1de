package http

import (
	"net/http"

	"github.com/hirehub/backend/internal/common/constants"
	"github.com/hirehub/backend/internal/common/httpmetrics"
	"github.com/hirehub/backend/internal/common/logger"
)

func BuildBaseHandler(appName, allowedOrigin string, log *logger.Logger, handler http.Handler) http.Handler {
	metrics := httpmetrics.New(appName)
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)
	cors := CORSMiddleware(allowedOrigin)

	return SecurityHeadersMiddleware(cors(recovery(TraceIDMiddleware(maxRequestSize(metrics.Wrap(handler))))))
}
