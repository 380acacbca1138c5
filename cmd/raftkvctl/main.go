package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cuemby/raftkv/internal/rpc"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "raftkvctl",
	Short: "CLI for the replicated key-value store",
}

func init() {
	rootCmd.PersistentFlags().String("addr", "127.0.0.1:50051", "Node RPC address")
	rootCmd.AddCommand(putCmd, getCmd, deleteCmd, statusCmd)
}

func newClient(cmd *cobra.Command) (*rpc.Client, error) {
	addr, _ := cmd.Flags().GetString("addr")
	return rpc.NewClient(addr)
}

var putCmd = &cobra.Command{
	Use:   "put <key> <value>",
	Short: "Write a key/value pair",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.Put(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("OK put %s\n", args[0])
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Read a key's value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		value, found, err := c.Get(ctx, args[0])
		if err != nil {
			return err
		}
		if !found {
			fmt.Printf("%s not found\n", args[0])
			return nil
		}
		fmt.Println(value)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Remove a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.Delete(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("OK delete %s\n", args[0])
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the connected node's view of cluster health",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		status, err := c.ClusterStatus(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("state:         %s\n", status.State)
		fmt.Printf("leader:        %s\n", status.Leader)
		fmt.Printf("term:          %d\n", status.Term)
		fmt.Printf("last_log_index: %d\n", status.LastLogIndex)
		fmt.Printf("applied_index:  %d\n", status.AppliedIndex)
		fmt.Println("servers:")
		for _, srv := range status.Servers {
			fmt.Printf("  - %s (%s) %s\n", srv.ID, srv.Address, srv.Suffrage)
		}
		return nil
	},
}
