// ====================================
// File: cmd/agora/main.go
// ====================================
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/agoradao/agora-go/internal/config"
	"github.com/agoradao/agora-go/internal/intent"
	"github.com/agoradao/agora-go/internal/logger"
)

func main() {
	configPath := "configs/config.json"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logCfg := logger.DefaultConfig()
	logCfg.LogFile = cfg.LogFile
	logCfg.Development = cfg.DebugLogging
	log, err := logger.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Agora SDK configuration loaded",
		zap.String("package", cfg.Package().String()),
		zap.Strings("rpc_list", cfg.RPCList),
		zap.Int("retries", cfg.Retries))

	// Print the governed-action catalog so operators can align DAO
	// whitelists with what this build can stage.
	for _, d := range intent.Catalog() {
		fmt.Printf("%-32s %s\n", d.Kind, d.TargetKey())
	}
}
