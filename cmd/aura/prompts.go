package main

import (
	"context"
	"fmt"

	"github.com/aretw0/aura/internal/cli"
	"github.com/aretw0/aura/pkg/adapters/loam"
	"github.com/aretw0/aura/pkg/adapters/redis"
	"github.com/spf13/cobra"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Manage prompt templates",
}

var promptsPushCmd = &cobra.Command{
	Use:   "push [dir]",
	Short: "Copy the templates of a directory into Redis",
	Long: `Reads every template document of a directory and stores it in Redis under the
configured prefix, so that servers using 'prompts.source: redis' pick it up on their next start.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		dir := cfg.Prompts.Dir
		if len(args) > 0 {
			dir = args[0]
		}
		url := cfg.Prompts.RedisURL
		if cmd.Flags().Changed("redis-url") {
			url, _ = cmd.Flags().GetString("redis-url")
		}
		if url == "" {
			return fmt.Errorf("no redis url: set prompts.redis_url or --redis-url")
		}

		src, err := loam.Open(dir)
		if err != nil {
			return err
		}
		dst, err := redis.NewFromURL(url, redis.WithPrefix(cfg.Prompts.RedisPrefix))
		if err != nil {
			return err
		}
		defer func() { _ = dst.Close() }()

		ctx := context.Background()
		if err := dst.Ping(ctx); err != nil {
			return fmt.Errorf("redis unreachable: %w", err)
		}

		ids, err := cli.PushPrompts(ctx, src, dst, logger)
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintf(cmd.OutOrStdout(), "pushed %s\n", id)
		}
		return nil
	},
}

var promptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the templates of the configured source",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		src, closer, err := cli.NewTemplateSource(cfg.Prompts)
		if err != nil {
			return err
		}
		if closer != nil {
			defer func() { _ = closer.Close() }()
		}

		lister, ok := src.(cli.Source)
		if !ok {
			return fmt.Errorf("source %q cannot list templates", cfg.Prompts.Source)
		}
		ids, err := lister.ListTemplates(context.Background())
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(promptsCmd)
	promptsCmd.AddCommand(promptsPushCmd)
	promptsCmd.AddCommand(promptsListCmd)
	promptsPushCmd.Flags().String("redis-url", "", "Redis URL (overrides prompts.redis_url)")
}
