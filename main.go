package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	cachex "github.com/tanpawarit/Chative-Intent-Graph/intent/cache"
	classifierx "github.com/tanpawarit/Chative-Intent-Graph/intent/classifier"
	pipelinex "github.com/tanpawarit/Chative-Intent-Graph/intent/pipeline"
	storex "github.com/tanpawarit/Chative-Intent-Graph/intent/store"
	configx "github.com/tanpawarit/Chative-Intent-Graph/pkg/config"
	logx "github.com/tanpawarit/Chative-Intent-Graph/pkg/logger"
	openrouterx "github.com/tanpawarit/Chative-Intent-Graph/pkg/openrouter"
	twinx "github.com/tanpawarit/Chative-Intent-Graph/pkg/twin"
)

type AppConfig struct {
	DialogDir  string `split_words:"true" default:"dialogs"`
	OutputPath string `split_words:"true" default:"result.json"`
}

var envFile string

var rootCmd = &cobra.Command{
	Use:           "intentgraph",
	Short:         "Build an intent reply graph from recorded dialogs",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configx.SetEnvFile(envFile)
		logCfg, err := configx.New[logx.Config]("LOG")
		if err != nil {
			return err
		}
		logx.InitWriter(os.Stderr, *logCfg)
		return nil
	},
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Classify every transcript and write the intent tree",
	Args:  cobra.NoArgs,
	RunE:  runBuild,
}

var classifyCmd = &cobra.Command{
	Use:   "classify TEXT...",
	Short: "Print the intent label for one utterance",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClassify,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "path to a .env file (defaults to ./.env when present)")

	buildCmd.Flags().String("dialogs", "", "transcript directory (overrides DIALOG_DIR)")
	buildCmd.Flags().String("out", "", "result file (overrides OUTPUT_PATH)")

	rootCmd.AddCommand(buildCmd, classifyCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("intentgraph failed")
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	appCfg, err := configx.New[AppConfig]("")
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("dialogs"); strings.TrimSpace(v) != "" {
		appCfg.DialogDir = v
	}
	if v, _ := cmd.Flags().GetString("out"); strings.TrimSpace(v) != "" {
		appCfg.OutputPath = v
	}

	stack, err := newClassifierStack()
	if err != nil {
		return err
	}
	defer stack.Close()

	opts := []pipelinex.Option{}
	storeCfg, err := configx.New[storex.Config]("POSTGRES")
	if err != nil {
		return err
	}
	if storeCfg.Enabled() {
		st, err := storex.Open(ctx, *storeCfg)
		if err != nil {
			return err
		}
		defer st.Close()
		opts = append(opts, pipelinex.WithSink(st))
	}

	p, err := pipelinex.New(stack, opts...)
	if err != nil {
		return err
	}

	out, err := p.Run(log.Logger.WithContext(ctx), pipelinex.RunInput{
		DialogDir:  appCfg.DialogDir,
		OutputPath: appCfg.OutputPath,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d conversations, %d intents, %d edges -> %s\n",
		out.RunID, out.Conversations, out.Nodes, out.Edges, out.OutputPath)
	return nil
}

func runClassify(cmd *cobra.Command, args []string) error {
	stack, err := newClassifierStack()
	if err != nil {
		return err
	}
	defer stack.Close()

	label, err := stack.Classify(log.Logger.WithContext(cmd.Context()), strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), label)
	return nil
}

func newClassifierStack() (*classifierx.Stack, error) {
	cfg, err := configx.New[classifierx.Config]("CLASSIFIER")
	if err != nil {
		return nil, err
	}

	var deps classifierx.Deps
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case classifierx.BackendLLM, classifierx.BackendChatModel:
		orCfg, err := configx.New[openrouterx.Config]("OPENROUTER")
		if err != nil {
			return nil, err
		}
		deps.OpenRouter = *orCfg
	default:
		twinCfg, err := configx.New[twinx.Config]("TWIN")
		if err != nil {
			return nil, err
		}
		deps.Twin = *twinCfg
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Cache)) {
	case classifierx.CacheUpstash:
		upCfg, err := configx.New[cachex.UpstashConfig]("UPSTASH")
		if err != nil {
			return nil, err
		}
		deps.Upstash = *upCfg
	case classifierx.CacheRedis:
		redisCfg, err := configx.New[cachex.RedisConfig]("REDIS")
		if err != nil {
			return nil, err
		}
		deps.Redis = *redisCfg
	}

	return classifierx.New(*cfg, deps)
}
