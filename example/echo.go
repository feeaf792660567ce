package main

import (
	"context"
	"encoding/binary"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Zereker/framesock"
)

var reply = []byte("Hello, client!\x00")

// hostString renders the peer as dotted IPv4 and port.
func hostString(c *framesock.Conn) string {
	var ip [4]byte
	binary.BigEndian.PutUint32(ip[:], c.RemoteHost())
	return net.JoinHostPort(net.IP(ip[:]).String(), strconv.Itoa(int(c.RemotePort())))
}

func onMessage(msg framesock.Message, conn *framesock.Conn) {
	log.Info().
		Str("peer", hostString(conn)).
		Int("bytes", msg.Length()).
		Str("text", string(msg.Body())).
		Msg("message")

	if !conn.Send(reply) {
		log.Warn().Str("peer", hostString(conn)).Msg("reply failed")
	}
}

// adminRouter exposes metrics and health probes.
func adminRouter(reg *prometheus.Registry, server *framesock.Server) http.Handler {
	health := healthcheck.NewHandler()
	health.AddLivenessCheck("goroutines", healthcheck.GoroutineCountCheck(10000))
	health.AddReadinessCheck("listener", healthcheck.TCPDialCheck(server.Addr().String(), 100*time.Millisecond))

	r := chi.NewRouter()
	r.Get("/live", health.LiveEndpoint)
	r.Get("/ready", health.ReadyEndpoint)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return r
}

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func main() {
	var (
		addr      = flag.String("addr", "127.0.0.1:8080", "listen address")
		admin     = flag.String("admin", "127.0.0.1:9090", "metrics and health address, empty to disable")
		idle      = flag.Duration("keepalive-idle", time.Second, "keep-alive idle time")
		interval  = flag.Duration("keepalive-interval", time.Second, "keep-alive probe interval")
		count     = flag.Int("keepalive-count", 1, "keep-alive probe count")
		nativeEnd = flag.Bool("native-endian", false, "use host byte order for the length prefix")
		debug     = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	logger := framesock.NewZerologLogger(log.Logger)

	tcpAddr, err := net.ResolveTCPAddr("tcp", *addr)
	if err != nil {
		log.Fatal().Err(err).Msg("resolve address")
	}

	reg := prometheus.NewRegistry()
	metrics, err := framesock.NewMetrics(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("register metrics")
	}

	connOpts := []framesock.Option{
		framesock.KeepAliveOption(framesock.KeepAlive{Idle: *idle, Interval: *interval, Count: *count}),
	}
	if *nativeEnd {
		connOpts = append(connOpts, framesock.ByteOrderOption(binary.NativeEndian))
	}

	server, err := framesock.New(tcpAddr,
		framesock.ServerLoggerOption(logger),
		framesock.ServerMetricsOption(metrics),
		framesock.ServerConnOptions(connOpts...),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create server")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *admin != "" {
		srv := &http.Server{Addr: *admin, Handler: adminRouter(reg, server)}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("admin server")
			}
		}()
		defer srv.Close()
	}

	log.Info().Str("addr", server.Addr().String()).Msg("server is up")
	if err := server.Serve(ctx, framesock.HandlerFunc(onMessage)); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("server error")
	}
}
