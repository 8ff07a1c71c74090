package cmd

import (
	"fmt"
	"os"

	internalApp "github.com/haierkeys/fast-note-ai-service/internal/app"

	"github.com/spf13/cobra"
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade legacy database schema and data to the latest version",
	Long: `Upgrade legacy database schema and data to the latest version.

This command will check the schema_version table and apply all pending migrations.
It is safe to run this command multiple times - already applied migrations will be skipped.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		configPath, err := resolveConfigPath(configPath)
		if err != nil {
			fmt.Printf("Failed to resolve config: %v\n", err)
			os.Exit(1)
		}

		appConfig, configRealpath, err := internalApp.LoadConfig(configPath)
		if err != nil {
			fmt.Printf("Failed to load config: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Loading config from: %s\n", configRealpath)

		lg, err := initLoggerWithConfig(appConfig)
		if err != nil {
			fmt.Printf("Failed to init logger: %v\n", err)
			os.Exit(1)
		}

		if err := initStorageWithConfig(appConfig); err != nil {
			fmt.Printf("Failed to init storage: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Starting database upgrade...")

		// 打开数据库并执行升级
		db, err := initDatabaseWithConfig(appConfig, lg)
		if err != nil {
			fmt.Printf("Upgrade failed: %v\n", err)
			os.Exit(1)
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}

		fmt.Println("Database upgrade completed successfully!")
	},
}

func init() {
	rootCmd.AddCommand(upgradeCmd)
	upgradeCmd.Flags().StringP("config", "c", "", "config file path")
}
