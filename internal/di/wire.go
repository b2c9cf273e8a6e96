//go:build wireinject
// +build wireinject

package di

import (
	"labtrack/internal/dbmongo"
	"labtrack/internal/dbmysql"
	"labtrack/internal/notif"
	"labtrack/internal/user"

	"github.com/google/wire"
)

func InitializeApplication() (*Application, error) {
	wire.Build(
		ProvideConfig,
		dbmongo.NewMongoConnection,
		dbmysql.NewConnection,
		dbmysql.NewUserRepository,
		ProvideNotificationRepository,
		ProvideActivityRepository,
		ProvideUserDirectory,
		ProvideActivityManager,
		ProvideSubject,
		notif.NewNotificationService,
		notif.NewGenerator,
		notif.NewHandler,
		user.NewUserService,
		user.NewHandler,
		wire.Struct(new(Application), "*"),
	)
	return &Application{}, nil
}
