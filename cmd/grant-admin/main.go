package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/shopfront/internal/cache"
	"github.com/shopfront/internal/config"
	"github.com/shopfront/internal/constants"
	"github.com/shopfront/internal/logger"
	"github.com/shopfront/internal/models"
	"github.com/shopfront/internal/repository"
)

func main() {
	var username string
	flag.StringVar(&username, "username", "", "要提升为管理员的用户名")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	username = strings.TrimSpace(username)
	if username == "" {
		stdLog.Printf("usage: grant-admin -username <name>")
		os.Exit(2)
	}

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("grant_admin_redis_unavailable", "error", err)
	}

	userRepo := repository.NewUserRepository(models.DB)
	user, err := userRepo.GetByUsername(username)
	if err != nil {
		stdLog.Fatalf("Failed to load user %s: %v", username, err)
	}
	if user == nil {
		stdLog.Fatalf("User not found: %s", username)
	}
	if user.Role == constants.RoleAdmin {
		stdLog.Printf("User %s is already an admin", username)
		return
	}
	if _, err := userRepo.UpdateRole(user.ID, constants.RoleAdmin); err != nil {
		stdLog.Fatalf("Failed to grant admin to %s: %v", username, err)
	}
	// 角色缓存失效，下次请求重新读取
	if err := cache.DelUserAuthState(context.Background(), user.ID); err != nil {
		logger.Warnw("grant_admin_auth_state_invalidate_failed", "user_id", user.ID, "error", err)
	}
	stdLog.Printf("Granted admin role to %s (id=%d)", username, user.ID)
}
