package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/viant/hourly"
	"github.com/viant/hourly/model"
	"github.com/viant/hourly/service/endpoint"
	"github.com/viant/hourly/service/event"
	"github.com/viant/hourly/service/messaging/memory"
	"github.com/viant/hourly/tracing"
)

func serveCmd(opts *options) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				opts.config.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			publisher := event.NewPublisher[model.Summary](memory.NewQueue[event.Event[model.Summary]](memory.DefaultConfig()))
			listener := event.NewListener[model.Summary](publisher, func(e *event.Event[model.Summary]) error {
				opts.logger.Debug("event", "type", e.Context.EventType, "mode", e.Context.Mode,
					"allocated", e.Data.Allocated, "unallocated", e.Data.Unallocated, "export", e.Data.ExportRef)
				return nil
			}, opts.logger)
			listener.Start(ctx)
			defer listener.Stop()

			srv, err := hourly.NewFromConfig(opts.config, hourly.WithLogger(opts.logger), hourly.WithEventPublisher(publisher))
			if err != nil {
				return err
			}
			server := endpoint.NewServer(opts.config.Server.Addr, endpoint.NewHandler(srv, opts.logger), opts.logger)
			if err = server.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err = server.Shutdown(shutdownCtx); err != nil {
				return err
			}
			return tracing.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	return cmd
}
