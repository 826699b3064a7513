package main

import (
	"OliaRewards/internal/bootstrap"
	pkg "OliaRewards/pkg/routes"

	"go.uber.org/fx"
)

func main() {
	bootstrap.Loadenv()
	app := fx.New(
		pkg.EchoModules,
	)
	app.Run()
}
