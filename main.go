package main

import (
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
)

var (
	configPath = flag.String("c", "", "yaml config file")
	listenAddr = flag.String("l", "", "listen address, overrides the config")
	dbpath     = flag.String("db", "", "db file name, overrides the config")
	flavor     = flag.String("flavor", "", "minecraft-pi or raspberry-juice, overrides the config")
	useMux     = flag.Bool("mux", false, "serve yamux streams")
	journalDir = flag.String("journal", "", "command journal directory, overrides the config")
)

func loadConfig() (Config, error) {
	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return cfg, err
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "l":
			cfg.Listen = *listenAddr
		case "db":
			cfg.DB = *dbpath
		case "flavor":
			cfg.Flavor = *flavor
		case "mux":
			cfg.Mux = *useMux
		case "journal":
			cfg.Journal = *journalDir
		}
	})
	return cfg, cfg.Validate()
}

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}
	store, err := NewStore(cfg.DB)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	var journal *Journal
	if cfg.Journal != "" {
		journal = NewJournal(cfg.Journal)
		defer journal.Close()
	}

	service, err := NewWorldService(store, cfg)
	if err != nil {
		log.Fatal(err)
	}
	l, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("serving %s on %s (mux=%v)", cfg.Flavor, l.Addr(), cfg.Mux)

	server := NewServer(cfg, service, journal)
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		l.Close()
		server.Close()
	}()
	server.Serve(l)
}
