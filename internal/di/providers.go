package di

import (
	"labtrack/internal/common"
	"labtrack/internal/config"
	"labtrack/internal/dbmongo"
	"labtrack/internal/dbmysql"
	"labtrack/internal/notif"
	"labtrack/internal/user"

	"gorm.io/gorm"
)

type Application struct {
	Config       *config.Config
	Mongo        *dbmongo.MongoClient
	DB           *gorm.DB
	Service      *notif.NotificationService
	Generator    *notif.Generator
	NotifHandler *notif.Handler
	UserHandler  *user.Handler
}

func ProvideConfig() *config.Config {
	return config.LoadConfig()
}

func ProvideNotificationRepository(mc *dbmongo.MongoClient) notif.NotificationRepository {
	return dbmongo.NewNotificationStore(mc)
}

func ProvideActivityRepository(mc *dbmongo.MongoClient) notif.ActivityRepository {
	return dbmongo.NewActivityStore(mc)
}

func ProvideUserDirectory(repo dbmysql.UserRepository) notif.UserDirectory {
	return repo
}

// ProvideActivityManager builds the audit event hub with the activity-log
// observer already subscribed.
func ProvideActivityManager(cfg *config.Config, activities notif.ActivityRepository) *notif.ActivityManager {
	manager := notif.NewActivityManager(cfg.Notification.Workers, cfg.Notification.ChannelBufferSize)
	manager.Subscribe(notif.NewActivityLogObserver(activities))
	return manager
}

func ProvideSubject(manager *notif.ActivityManager) common.Subject {
	return manager
}
