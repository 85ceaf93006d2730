package main

import (
	"championship-be/internal/api/http"
	"championship-be/internal/config"
	"championship-be/internal/logger"
	"championship-be/internal/service"
	"championship-be/internal/service/championship"
	"championship-be/internal/state"
	"championship-be/internal/storage/sqlite"

	"go.uber.org/zap"
)

func main() {
	// 加载配置
	cfg := config.InitConfig()

	// 初始化日志器
	logger.InitLogger(cfg.LogLevel)
	defer zap.L().Sync()

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		zap.L().Fatal("open storage failed", zap.String("db_path", cfg.DBPath), zap.Error(err))
	}

	champSvc := service.NewChampionshipService(store, championship.Points{
		Win:  cfg.WinPoints,
		Draw: cfg.DrawPoints,
		Lose: cfg.LosePoints,
	})
	defer champSvc.Close()

	// 组装应用状态
	appState := state.NewAppState(
		cfg,
		champSvc,
	)

	// 启动服务器
	if err := http.RunServer(appState); err != nil {
		zap.L().Error("server stopped", zap.Error(err))
	}
}
