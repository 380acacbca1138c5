package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cuemby/raftkv/internal/cluster"
	"github.com/cuemby/raftkv/internal/config"
	"github.com/cuemby/raftkv/internal/log"
	"github.com/cuemby/raftkv/internal/metrics"
	"github.com/cuemby/raftkv/internal/rpc"
	"github.com/cuemby/raftkv/internal/singlenode"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "raftkv-node",
	Short: "Run a replicated key-value store node",
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")
	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(serveCmd)
}

func initLogging() {
	level, _ := rootCmd.PersistentFlags().GetString("log-level")
	jsonOut, _ := rootCmd.PersistentFlags().GetBool("log-json")
	log.Init(log.Config{
		Level:      log.Level(level),
		JSONOutput: jsonOut,
	})
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Bootstrap or join a cluster and start serving",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		if single, _ := cmd.Flags().GetBool("single-node"); single {
			return serveSingleNode(cmd, cfg)
		}

		if id, _ := cmd.Flags().GetString("id"); id != "" {
			cfg.NodeID = id
		}
		if addr, _ := cmd.Flags().GetString("raft-addr"); addr != "" {
			cfg.RaftAddr = addr
		}
		if addr, _ := cmd.Flags().GetString("rpc-addr"); addr != "" {
			cfg.RPCAddr = addr
		}
		if dir, _ := cmd.Flags().GetString("data"); dir != "" {
			cfg.DataDir = dir
		}
		if join, _ := cmd.Flags().GetString("join"); join != "" {
			cfg.JoinAddr = join
		}

		if single, _ := cmd.Flags().GetBool("single-node"); single {
			return serveSingleNode(cmd, cfg)
		}
		metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

		if err := cfg.Validate(); err != nil {
			return err
		}

		node, err := cluster.NewNode(cluster.NodeConfig{
			ID:       cfg.NodeID,
			RaftAddr: cfg.RaftAddr,
			DataDir:  cfg.DataDir,
		})
		if err != nil {
			return fmt.Errorf("raftkv-node: create node: %w", err)
		}

		if cfg.JoinAddr == "" {
			if err := node.Bootstrap(); err != nil {
				return fmt.Errorf("raftkv-node: bootstrap: %w", err)
			}
		} else {
			if err := joinCluster(cfg); err != nil {
				return fmt.Errorf("raftkv-node: join: %w", err)
			}
		}

		go func() {
			http.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(metricsAddr, nil); err != nil {
				log.WithComponent("raftkv-node").Warn().Err(err).Msg("metrics server stopped")
			}
		}()

		server := rpc.NewRaftServer(node)
		errCh := make(chan error, 1)
		go func() {
			if err := server.Serve(cfg.RPCAddr); err != nil {
				errCh <- err
			}
		}()

		log.WithComponent("raftkv-node").Info().
			Str("node_id", cfg.NodeID).
			Str("raft_addr", cfg.RaftAddr).
			Str("rpc_addr", cfg.RPCAddr).
			Msg("node is running")

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case <-sigCh:
			log.WithComponent("raftkv-node").Info().Msg("shutting down")
		case err := <-errCh:
			log.WithComponent("raftkv-node").Error().Err(err).Msg("rpc server error")
		}

		server.Stop()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return node.Shutdown(ctx)
	},
}

// joinCluster asks the node named by cfg.JoinAddr (expected to be the
// current leader's RPC address) to add this node as a voter.
func joinCluster(cfg config.Config) error {
	client, err := rpc.NewClient(cfg.JoinAddr)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return client.JoinCluster(ctx, cfg.NodeID, cfg.RaftAddr)
}

// serveSingleNode runs the non-replicated deployment shape: a bare
// internal/singlenode.Store behind the ClientKV service, no Raft involved
// at all. --join is meaningless here and is ignored.
func serveSingleNode(cmd *cobra.Command, cfg config.Config) error {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("raftkv-node: create data dir: %w", err)
	}
	store, err := singlenode.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("raftkv-node: open store: %w", err)
	}

	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
	go func() {
		http.Handle("/metrics", metrics.Handler())
		if err := http.ListenAndServe(metricsAddr, nil); err != nil {
			log.WithComponent("raftkv-node").Warn().Err(err).Msg("metrics server stopped")
		}
	}()

	server := rpc.NewClientServer(store)
	errCh := make(chan error, 1)
	go func() {
		if err := server.Serve(cfg.RPCAddr); err != nil {
			errCh <- err
		}
	}()

	log.WithComponent("raftkv-node").Info().
		Str("rpc_addr", cfg.RPCAddr).
		Msg("single-node store is running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.WithComponent("raftkv-node").Info().Msg("shutting down")
	case err := <-errCh:
		log.WithComponent("raftkv-node").Error().Err(err).Msg("rpc server error")
	}

	server.Stop()
	return store.Close()
}

func init() {
	serveCmd.Flags().String("config", "", "Path to a YAML config file")
	serveCmd.Flags().String("id", "", "Node ID (overrides config)")
	serveCmd.Flags().String("raft-addr", "", "Raft bind address (overrides config)")
	serveCmd.Flags().String("rpc-addr", "", "RaftKV gRPC address (overrides config)")
	serveCmd.Flags().String("data", "", "Data directory (overrides config)")
	serveCmd.Flags().String("join", "", "Leader RPC address to join (bootstraps a new cluster if empty)")
	serveCmd.Flags().String("metrics-addr", "127.0.0.1:9090", "Prometheus metrics listen address")
	serveCmd.Flags().Bool("single-node", false, "Run the non-replicated, no-Raft deployment shape")
}
