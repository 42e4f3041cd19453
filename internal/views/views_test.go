package views

import (
	"io"
	"net/http/httptest"

	"github.com/sirupsen/logrus"

	"movierealm/internal/api"
)

// newTestClient points an API client at a fake backend. Logs are discarded;
// failures assert through the test, not the log.
func newTestClient(server *httptest.Server) (*api.Client, *logrus.Logger) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	client := api.NewClient(api.ClientConfig{
		BaseURL: server.URL,
		Logger:  logger,
	})
	return client, logger
}
