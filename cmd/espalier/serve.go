package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/logging"
	fileAdapter "github.com/aretw0/espalier/pkg/adapters/file"
	httpAdapter "github.com/aretw0/espalier/pkg/adapters/http"
	"github.com/aretw0/espalier/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/espalier/pkg/adapters/redis"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/aretw0/espalier/pkg/session"
	"github.com/joho/godotenv"
	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [quiz]",
	Short: "Start the HTTP server",
	Long: `Serves the quiz over a JSON API. Run state lives in the configured store:

- memory (default): lost on restart, single instance only
- file: JSON files under --data-dir
- redis: shared store with distributed locking, for multiple replicas

Redis connection settings come from REDIS_ADDR, REDIS_PASSWORD and REDIS_DB,
read from the environment or a .env file.`,
	Run: func(cmd *cobra.Command, args []string) {
		// A missing .env file is fine; real environments set variables directly.
		_ = godotenv.Load()

		port, _ := cmd.Flags().GetString("port")
		storeKind, _ := cmd.Flags().GetString("store")
		dataDir, _ := cmd.Flags().GetString("data-dir")

		quiz, err := loadQuiz(cmd, args)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		logger := logging.New(slog.LevelInfo)
		engine, err := espalier.New(quiz, espalier.WithLogger(logger))
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		var (
			store      ports.RunStore
			manageOpts []session.Option
		)
		manageOpts = append(manageOpts, session.WithLogger(logger))

		switch storeKind {
		case "memory":
			store = memory.NewStore()
		case "file":
			store, err = fileAdapter.NewRunStore(dataDir)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
		case "redis":
			db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
			addr := os.Getenv("REDIS_ADDR")
			if addr == "" {
				addr = "localhost:6379"
			}
			client := backend.NewClient(&backend.Options{
				Addr:     addr,
				Password: os.Getenv("REDIS_PASSWORD"),
				DB:       db,
			})
			store = redisAdapter.NewFromClient(client)
			manageOpts = append(manageOpts, session.WithLocker(redisAdapter.NewLocker(client, "espalier:")))
		default:
			fmt.Printf("Unknown store: %s. Supported: memory, file, redis\n", storeKind)
			os.Exit(1)
		}

		runs := session.NewManager(store, manageOpts...)
		handler, err := httpAdapter.NewHandler(engine, runs, httpAdapter.WithServerLogger(logger))
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		serverErrors := make(chan error, 1)
		go func() {
			fmt.Printf("Starting Espalier server on %s (quiz %q, store %s)\n", srv.Addr, quiz.ID, storeKind)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Espalier server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("store", "memory", "Run store backend: memory, file or redis")
	serveCmd.Flags().String("data-dir", "./runs", "Directory for the file store")
}
