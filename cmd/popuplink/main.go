package main

import (
	"errors"
	"net/http"

	"github.com/fsdevblog/popuplink/internal/app"
	"github.com/fsdevblog/popuplink/internal/bmeta"
	"github.com/fsdevblog/popuplink/internal/config"
)

// Заполняются через ldflags при сборке.
var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	appConf := config.MustLoadConfig()

	a := app.Must(app.New(*appConf))

	a.Logger.WithFields(bmeta.Fields(buildVersion, buildDate, buildCommit)).
		Info("Starting server")
	if err := a.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(err)
	}
}
