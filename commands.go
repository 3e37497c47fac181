package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/zefrenchwan/lineage.git/ahnentafel"
	"github.com/zefrenchwan/lineage.git/cache"
	"github.com/zefrenchwan/lineage.git/config"
	"github.com/zefrenchwan/lineage.git/kinship"
	"github.com/zefrenchwan/lineage.git/people"
	"github.com/zefrenchwan/lineage.git/serving"
	"github.com/zefrenchwan/lineage.git/storage"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	FORMAT_JSON = "json"
	FORMAT_YAML = "yaml"
)

var (
	// settings are read from env, then flags override them
	settings = loadSettings()
	logger   = zap.NewNop().Sugar()

	inputFile    string
	rootPersonId int
	depth        int
	relateDepth  int
	outputFormat string

	rootCmd = &cobra.Command{
		Use:           "lineage",
		Short:         "Genealogy graphs and relationships",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if base, err := config.NewLogger(settings.LogLevel, settings.LogFormat, "lineage"); err != nil {
				return fmt.Errorf("logger creation failed: %w", err)
			} else {
				logger = base.Sugar()
			}

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				logger.Sync()
			}
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Starts the http service",
		RunE:  runServe,
	}

	relateCmd = &cobra.Command{
		Use:   "relate",
		Short: "Computes relationships of a family to a root person",
		Long: `Reads a request envelope, a json object with familyMap and rootPersonId,
and prints the response envelope. Use - as input to read stdin.
With --depth, the family is loaded from database instead: root, its ancestors up to
depth generations, and the relatives their profiles carry.`,
		RunE: runRelate,
	}

	ancestorsCmd = &cobra.Command{
		Use:   "ancestors",
		Short: "Loads ancestors of a person from database and prints their positions",
		RunE:  runAncestors,
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&settings.LogLevel, "log-level", settings.LogLevel, "log level: debug, info, warn, error")
	flags.StringVar(&settings.LogFormat, "log-format", settings.LogFormat, "log format: json or console")
	flags.StringVar(&settings.DatabaseUrl, "db", settings.DatabaseUrl, "database url, "+config.ENV_DB_URL+" by default")

	serveCmd.Flags().StringVar(&settings.Port, "port", settings.Port, "port to listen to, as :number")
	serveCmd.Flags().IntVar(&settings.Workers, "workers", settings.Workers, "relationship workers")
	serveCmd.Flags().IntVar(&settings.CacheSize, "cache-size", settings.CacheSize, "cached profiles")
	serveCmd.Flags().BoolVar(&settings.RequireDatabase, "require-db", settings.RequireDatabase, "fail when database is not set or not reachable")
	serveCmd.Flags().IntVar(&settings.MaxGenerations, "max-generations", settings.MaxGenerations, "deepest ancestors request")

	relateCmd.Flags().StringVarP(&inputFile, "input", "i", "-", "request file")
	relateCmd.Flags().IntVar(&rootPersonId, "root", 0, "root person id, overrides the request one")
	relateCmd.Flags().StringVarP(&outputFormat, "format", "f", FORMAT_JSON, "output format: json or yaml")
	relateCmd.Flags().IntVar(&relateDepth, "depth", 0, "load family from database up to that generation, root being generation 1")

	ancestorsCmd.Flags().IntVar(&rootPersonId, "root", 0, "root person id")
	ancestorsCmd.Flags().IntVar(&depth, "depth", 4, "generations to load, root being generation 1")
	ancestorsCmd.Flags().StringVarP(&outputFormat, "format", "f", FORMAT_JSON, "output format: json or yaml")
	ancestorsCmd.MarkFlagRequired("root")

	rootCmd.AddCommand(serveCmd, relateCmd, ancestorsCmd)
}

// loadSettings reads .env if any, then environment
func loadSettings() config.Settings {
	config.LoadEnv()
	return config.FromEnv()
}

// runServe starts workers and the http service until interrupted
func runServe(cmd *cobra.Command, args []string) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	parameters := serving.ServiceParameters{
		Ctx:            ctx,
		Logger:         logger,
		MaxGenerations: settings.MaxGenerations,
	}

	if settings.DatabaseUrl == "" {
		logger.Warnw("no database set, ancestors are not available", "variable", config.ENV_DB_URL)
	} else if dao, errDao := storage.NewDao(ctx, settings.DatabaseUrl); errDao != nil {
		return fmt.Errorf("failed to build dao: %w", errDao)
	} else {
		defer dao.Close()
		if errPing := dao.Ping(ctx); errPing != nil && settings.RequireDatabase {
			return fmt.Errorf("database not reachable: %w", errPing)
		} else if errPing != nil {
			logger.Warnw("database not reachable yet", "error", errPing)
		}

		parameters.Loader = cache.NewLoader(&dao, settings.CacheSize)
	}

	dispatcher := kinship.NewDispatcher(logger)
	parameters.Dispatcher = dispatcher
	go func() {
		if err := dispatcher.Run(ctx, settings.Workers); err != nil {
			logger.Errorw("relationship workers stopped", "error", err)
		}
	}()

	server := &http.Server{
		Addr:              settings.Port,
		Handler:           serving.InitService(parameters),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	logger.Infow("serving", "port", settings.Port, "workers", settings.Workers)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// runRelate computes relationships for a request file, or for a family loaded from database
func runRelate(cmd *cobra.Command, args []string) error {
	if relateDepth > 0 {
		return runRelateFromDatabase(cmd)
	}

	var content []byte
	if inputFile == "-" {
		if value, err := io.ReadAll(cmd.InOrStdin()); err != nil {
			return err
		} else {
			content = value
		}
	} else if value, err := os.ReadFile(inputFile); err != nil {
		return err
	} else {
		content = value
	}

	var request kinship.Request
	if err := json.Unmarshal(content, &request); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	if rootPersonId != 0 {
		request.RootPersonId = rootPersonId
	}

	response := kinship.Handle(request)
	if response.IsError() {
		logger.Errorw("relationship computation failed", "root", request.RootPersonId, "error", response.Message)
	}

	return printValue(cmd.OutOrStdout(), response, outputFormat)
}

// runRelateFromDatabase loads the family of root from database and relates it to root
func runRelateFromDatabase(cmd *cobra.Command) error {
	if settings.DatabaseUrl == "" {
		return fmt.Errorf("no database set, use --db or %s", config.ENV_DB_URL)
	} else if rootPersonId <= 0 {
		return errors.New("expecting a root person id")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	dao, errDao := storage.NewDao(ctx, settings.DatabaseUrl)
	if errDao != nil {
		return fmt.Errorf("failed to build dao: %w", errDao)
	}

	defer dao.Close()
	response, err := relateLoadedFamily(ctx, &dao, rootPersonId, relateDepth)
	if err != nil {
		return err
	} else if response.IsError() {
		logger.Errorw("relationship computation failed", "root", rootPersonId, "error", response.Message)
	}

	return printValue(cmd.OutOrStdout(), response, outputFormat)
}

// relateLoadedFamily loads root and its ancestors in a graph, then relates every loaded person to root
func relateLoadedFamily(ctx context.Context, loader people.Loader, rootId int, generations int) (kinship.Response, error) {
	_, graph, err := ahnentafel.Load(ctx, loader, rootId, generations, ahnentafel.MAX_GENERATIONS-1, logger)
	if err != nil {
		return kinship.Response{}, err
	}

	logger.Debugw("family loaded", "root", rootId, "people", graph.Count())
	return kinship.Handle(kinship.NewRequest(rootId, graph.FamilyMap().Entries())), nil
}

// runAncestors loads ancestors from database and prints the index
func runAncestors(cmd *cobra.Command, args []string) error {
	if settings.DatabaseUrl == "" {
		return fmt.Errorf("no database set, use --db or %s", config.ENV_DB_URL)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	dao, errDao := storage.NewDao(ctx, settings.DatabaseUrl)
	if errDao != nil {
		return fmt.Errorf("failed to build dao: %w", errDao)
	}

	defer dao.Close()
	index, graph, errLoad := ahnentafel.Load(ctx, &dao, rootPersonId, depth, ahnentafel.MAX_GENERATIONS-1, logger)
	if errLoad != nil {
		return errLoad
	}

	return printValue(cmd.OutOrStdout(), storage.SerializeIndex(index, graph), outputFormat)
}

// printValue writes value as json or yaml
func printValue(w io.Writer, value any, format string) error {
	switch format {
	case FORMAT_JSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(value)
	case FORMAT_YAML:
		// yaml has no custom marshalers for our types, go through json first
		var generic any
		if raw, err := json.Marshal(value); err != nil {
			return err
		} else if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}

		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		defer encoder.Close()
		return encoder.Encode(generic)
	default:
		return fmt.Errorf("unsupported format %s", format)
	}
}
