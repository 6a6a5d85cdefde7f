package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"impostor-party-be/internal/api/http"
	"impostor-party-be/internal/config"
	"impostor-party-be/internal/logger"
	"impostor-party-be/internal/service"
	"impostor-party-be/internal/service/game"
	"impostor-party-be/internal/state"
	"impostor-party-be/internal/words"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const releaseVersion = "0.1.0"

func main() {
	cobra.CheckErr(newCmd().Execute())
}

func newCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "impostor-party-be",
		Short:         "Room coordinator for the impostor word party game.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			// 加载配置
			cfg, err := config.InitConfig(cmd.Flags())
			if err != nil {
				return err
			}

			// 初始化日志器
			if err := logger.InitLogger(cfg.LogLevel); err != nil {
				return err
			}
			defer logger.Sync()

			return run(cfg)
		},
	}

	config.BindFlags(cmd.Flags())

	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("impostor-party-be v{{.Version}}\n")

	return cmd
}

func run(cfg *config.AppConfig) error {
	bank, err := words.Load(cfg.WordsFile)
	if err != nil {
		return fmt.Errorf("加载词库失败: %w", err)
	}

	zap.S().Infof("词库已加载，共 %d 组词", bank.Len())

	roomSvc := service.NewRoomService(bank, game.NewRandom(), cfg.MailboxSize)
	defer roomSvc.Close()

	// 组装应用状态
	appState := state.NewAppState(cfg, roomSvc)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zap.S().Infof("服务器监听于 %s", cfg.Addr())

	// 启动服务器
	return http.RunServer(ctx, appState)
}
