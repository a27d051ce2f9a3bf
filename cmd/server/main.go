package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"voxelmaze.ai/internal/catalogs"
	"voxelmaze.ai/internal/generator"
	"voxelmaze.ai/internal/persistence/indexdb"
	"voxelmaze.ai/internal/persistence/store"
	"voxelmaze.ai/internal/protocol"
	"voxelmaze.ai/internal/transport/admin"
	"voxelmaze.ai/internal/transport/ws"
	"voxelmaze.ai/internal/tuning"
)

func main() {
	var (
		addr        = flag.String("addr", ":8080", "http listen address")
		configDir   = flag.String("configs", "./configs", "config directory")
		tuningPath  = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		dataDir     = flag.String("data", "./data", "runtime data directory")
		disableDB   = flag.Bool("disable_db", false, "disable the sqlite maze index (and /admin/v1/mazes)")
		maxInFlight = flag.Int("max_inflight", 4, "max concurrent generations")
		adminRemote = flag.Bool("admin_remote", false, "allow non-loopback clients on /admin endpoints")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("no tuning at %s; using defaults", tp)
		tune = tuning.Defaults()
	}
	if tune.ProtocolVersion != protocol.Version {
		logger.Printf("tuning protocol_version=%s, server speaks %s", tune.ProtocolVersion, protocol.Version)
	}

	var idx *indexdb.SQLiteIndex
	if !*disableDB {
		idx, err = indexdb.OpenSQLite(filepath.Join(*dataDir, "index", "mazes.sqlite"))
		if err != nil {
			logger.Fatalf("open index: %v", err)
		}
		defer idx.Close()
		if err := idx.UpsertCatalogs(cats, tune); err != nil {
			logger.Printf("index catalogs: %v", err)
		}
	}

	st := store.New(*dataDir, cats.Blocks.PaletteDigest, idx)
	defer st.Close()

	gen := generator.New(cats, tune.MaxCells)
	wsSrv := ws.NewServer(gen, st, ws.Options{
		EmptyBlock:  tune.EmptyBlock,
		WallBlock:   tune.WallBlock,
		MaxInFlight: *maxInFlight,
	}, logger)

	// A nil *SQLiteIndex must not reach the interface.
	var adminSrv *admin.Server
	if idx != nil {
		adminSrv = admin.NewServer(idx)
	} else {
		adminSrv = admin.NewServer(nil)
	}
	adminSrv.AllowRemote = *adminRemote

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(map[string]any{
			"ok":               true,
			"protocol_version": protocol.Version,
			"index":            idx != nil,
		})
	})
	mux.HandleFunc("/admin/v1/mazes", adminSrv.MazesHandler())
	mux.HandleFunc("/v1/ws", wsSrv.Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := signalContext()
	defer cancel()
	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s (size=%v max_cells=%d index=%v)", *addr, tune.Size, tune.MaxCells, idx != nil)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
	logger.Printf("shut down")
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
