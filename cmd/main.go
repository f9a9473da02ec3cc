package main

import (
	"github.com/shopfront-labs/order-lifecycle/internal/app"
	"github.com/shopfront-labs/order-lifecycle/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
