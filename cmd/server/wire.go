//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/rezkam/todos/internal/application/todo"
	"github.com/rezkam/todos/internal/config"
	"github.com/rezkam/todos/internal/domain"
	"github.com/rezkam/todos/internal/infrastructure/http/handler"
	"github.com/rezkam/todos/internal/infrastructure/http/session"
	"github.com/rezkam/todos/internal/infrastructure/http/web"
)

// StorageSet provides the collection store selected by configuration.
// The store implements todo.Repository.
var StorageSet = wire.NewSet(
	provideStore,
	wire.Bind(new(todo.Repository), new(store)),
)

// ServiceSet provides application services.
var ServiceSet = wire.NewSet(
	domain.NewSequence,
	provideTodoConfig,
	todo.NewService,
)

// HTTPSet provides HTTP layer components.
var HTTPSet = wire.NewSet(
	provideSessionManager,
	wire.Bind(new(handler.Scoper), new(*session.Manager)),
	web.NewHandler,
	handler.NewTodoHandler,
	provideHTTPServer,
)

// InitializeApp wires everything together for the server binary.
func InitializeApp(ctx context.Context, cfg *config.ServerConfig) (*App, func(), error) {
	wire.Build(
		StorageSet,
		ServiceSet,
		HTTPSet,
		provideHealthServer,
		provideApp,
	)
	return nil, nil, nil
}
