// Command a2a-server boots a single A2A agent behind pkg/server, backed by
// the reference Echo adapter. It exists to give pkg/server something real
// to listen with; wiring a production LLM-backed Adapter is left to the
// host application (spec §1 places provider adapters out of scope).
//
// Grounded on the teacher's cmd/serve.go ("serve agent" subcommand: flags
// for host/port/name, graceful shutdown on SIGINT/SIGTERM), rebuilt around
// this module's Server/Adapter shapes instead of the teacher's
// service.NewA2AServer.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	charmlog "github.com/charmbracelet/log"
	"github.com/lumenforge/a2a-go/pkg/a2a"
	"github.com/lumenforge/a2a-go/pkg/adapter"
	"github.com/lumenforge/a2a-go/pkg/logging"
	"github.com/lumenforge/a2a-go/pkg/server"
)

func main() {
	host := flag.String("host", "0.0.0.0", "host address to bind to")
	port := flag.Int("port", 8080, "port to serve on")
	name := flag.String("name", "A2A-Go Echo Agent", "agent name published in the agent card")
	streaming := flag.Bool("streaming", true, "advertise message/stream support")
	token := flag.String("token", "", "if set, require this bearer token on every non-discovery endpoint")
	flag.Parse()

	logging.Init(charmlog.InfoLevel, map[string]any{"component": "a2a-server"}, nil)

	url := fmt.Sprintf("http://%s:%d", *host, *port)
	echo := &adapter.Echo{Streaming: *streaming}

	card := a2a.AgentCard{
		Name:               echo.AgentName(),
		Description:        echo.AgentDescription(),
		URL:                url,
		Version:            "0.1.0",
		Capabilities:       echo.CardCapabilities(),
		DefaultInputModes:  echo.DefaultInputModes(),
		DefaultOutputModes: echo.DefaultOutputModes(),
		Skills:             echo.Skills(),
	}
	card.Name = *name

	var gate *server.AuthGate
	if *token != "" {
		gate = server.NewAuthGate([]string{*token}, nil)
		card.SecuritySchemes = []a2a.SecurityScheme{{Kind: "bearer", Name: "default"}}
	}

	srv := server.New(card, echo, nil, server.Options{
		AuthGate:        gate,
		FilterReasoning: true,
	})

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logging.L().Info("a2a server listening", "addr", fmt.Sprintf("%s:%d", *host, *port))
		if err := srv.App.Listen(fmt.Sprintf("%s:%d", *host, *port)); err != nil {
			logging.L().Fatal("server exited", "error", err)
		}
	}()

	<-stop
	logging.L().Info("shutting down")
	_ = srv.App.Shutdown()
}
