//go:build wireinject
// +build wireinject

package main

import (
	"net/http"

	"github.com/google/wire"

	"github.com/Ngone6325/autoinject/internal/config"
)

func initializeServer(cfg *config.Config) (*http.Server, func(), error) {
	wire.Build(serverSet)
	return nil, nil, nil
}
