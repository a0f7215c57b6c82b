package mercury_test

import (
	"testing"

	"github.com/strogo/mercury"
	"github.com/strogo/mercury/mercurytest"
)

func newTestClient(t testing.TB, app *mercury.App) *mercurytest.Client {
	t.Helper()
	return mercurytest.NewClient(t, app)
}
