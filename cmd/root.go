// Copyright (c) 2014-2026 The Myriadcoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/myriadcoin/electrum-headerchain/chain"
	"github.com/myriadcoin/electrum-headerchain/header"
	"github.com/myriadcoin/electrum-headerchain/metrics"
	"github.com/myriadcoin/electrum-headerchain/store"
)

var cfgFile string
var logger = logrus.New()

// Log is the package-level entry every subsystem logs through: a
// logrus.New() instance configured here, handed down with contextual
// fields.
var Log *logrus.Entry

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "headersyncd",
	Short: "headersyncd synchronizes Myriadcoin multi-algorithm block headers",
	Long: `headersyncd maintains a local, verified copy of the Myriadcoin
header chain, retargeting per its five proof-of-work algorithms and
syncing from peers without a full node.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := &Options{
			HeadersPath:     viper.GetString("headers-path"),
			HeadersDB:       viper.GetString("headers-db"),
			HeadersURL:      viper.GetString("headers-url"),
			DataDir:         viper.GetString("data-dir"),
			LogLevel:        viper.GetUint64("log-level"),
			LogFile:         viper.GetString("log-file"),
			MetricsBindAddr: viper.GetString("metrics-bind-addr"),
			Redownload:      viper.GetBool("redownload"),
		}

		if err := os.MkdirAll(opts.DataDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "\n  ** Can't create data directory: %s\n\n", opts.DataDir)
			os.Exit(1)
		}

		if err := run(opts); err != nil {
			Log.WithError(err).Fatal("headersyncd: fatal error")
		}
	},
}

// Options collects this subsystem's flags: no wallet-facing RPC or
// TLS surface, just what header sync needs.
type Options struct {
	HeadersPath     string
	HeadersDB       string
	HeadersURL      string
	DataDir         string
	LogLevel        uint64
	LogFile         string
	MetricsBindAddr string
	Redownload      bool
}

func run(opts *Options) error {
	if opts.LogFile != "" {
		output, err := os.OpenFile(opts.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			Log.WithFields(logrus.Fields{"error": err, "path": opts.LogFile}).Fatal("couldn't open log file")
		}
		defer output.Close()
		logger.SetOutput(output)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logger.SetLevel(logrus.Level(opts.LogLevel))

	Log.WithFields(logrus.Fields{
		"gitCommit": GitCommit,
		"buildDate": BuildDate,
	}).Infof("starting headersyncd version %s", Version)

	headersPath := opts.HeadersPath
	if headersPath == "" {
		headersPath = filepath.Join(opts.DataDir, "blockchain_headers")
	}
	headersDB := opts.HeadersDB
	if headersDB == "" {
		headersDB = filepath.Join(opts.DataDir, "headers.db")
	}

	if opts.Redownload {
		os.Remove(headersPath)
		os.Remove(headersDB)
	}

	if opts.HeadersURL != "" {
		if _, err := os.Stat(headersPath); os.IsNotExist(err) {
			Log.WithField("url", opts.HeadersURL).Info("fetching prebaked header file")
			if err := store.FetchPrebakedHeaders(opts.HeadersURL, headersPath); err != nil {
				Log.WithError(err).Warn("prebaked header fetch failed, starting from an empty chain")
			}
		}
	}

	files, err := store.Open(headersPath)
	if err != nil {
		return fmt.Errorf("opening header file: %w", err)
	}
	defer files.Close()

	index, err := store.OpenAlgoIndex(headersDB)
	if err != nil {
		return fmt.Errorf("opening algo index: %w", err)
	}
	defer index.Close()

	if tip := files.Tip(); tip >= 0 {
		indexed, err := index.CountBelow(header.SHA256D, tip+1)
		if err != nil {
			return fmt.Errorf("checking algo index: %w", err)
		}
		if indexed == 0 {
			Log.Info("algo index empty, rebuilding from header file")
			if err := store.RebuildAlgoIndex(files, index); err != nil {
				return fmt.Errorf("rebuilding algo index: %w", err)
			}
		}
	}

	worker := chain.NewWorker(files, index, Log)
	worker.OnTipChange(func(height int, peer chain.Peer) {
		Log.WithFields(logrus.Fields{"height": height, "peer": peer.Server()}).Info("new tip")
	})
	worker.Start()
	defer worker.Stop()

	metricsSrv := metrics.Serve(opts.MetricsBindAddr)
	defer metrics.Shutdown(metricsSrv)

	Log.WithField("addr", opts.MetricsBindAddr).Info("metrics listening")
	Log.WithField("tip", files.Tip()).Info("headersyncd ready")

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	s := <-signals
	Log.WithField("signal", s.String()).Info("caught signal, shutting down")
	return nil
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(); it only needs to
// happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is current directory, headersyncd.yaml)")

	rootCmd.Flags().String("headers-path", "", "path to the local header file (default <data-dir>/blockchain_headers)")
	rootCmd.Flags().String("headers-db", "", "path to the per-algorithm sqlite index (default <data-dir>/headers.db)")
	rootCmd.Flags().String("headers-url", "", "URL of a prebaked header file to bootstrap from on first run")
	rootCmd.Flags().String("data-dir", "/var/lib/headersyncd", "data directory (headers file, algo index)")
	rootCmd.Flags().Int("log-level", int(logrus.InfoLevel), "log level (logrus 1-7)")
	rootCmd.Flags().String("log-file", "", "log file to write to (default stderr)")
	rootCmd.Flags().String("metrics-bind-addr", "127.0.0.1:9068", "the address to serve /metrics on")
	rootCmd.Flags().Bool("redownload", false, "discard the local header file and index, and re-bootstrap from headers-url")

	viper.BindPFlag("headers-path", rootCmd.Flags().Lookup("headers-path"))
	viper.BindPFlag("headers-db", rootCmd.Flags().Lookup("headers-db"))
	viper.BindPFlag("headers-url", rootCmd.Flags().Lookup("headers-url"))
	viper.BindPFlag("data-dir", rootCmd.Flags().Lookup("data-dir"))
	viper.SetDefault("data-dir", "/var/lib/headersyncd")
	viper.BindPFlag("log-level", rootCmd.Flags().Lookup("log-level"))
	viper.SetDefault("log-level", int(logrus.InfoLevel))
	viper.BindPFlag("log-file", rootCmd.Flags().Lookup("log-file"))
	viper.BindPFlag("metrics-bind-addr", rootCmd.Flags().Lookup("metrics-bind-addr"))
	viper.SetDefault("metrics-bind-addr", "127.0.0.1:9068")
	viper.BindPFlag("redownload", rootCmd.Flags().Lookup("redownload"))
	viper.SetDefault("redownload", false)

	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:          true,
		DisableLevelTruncation: true,
	})

	Log = logger.WithFields(logrus.Fields{"app": "headersyncd"})

	logrus.RegisterExitHandler(func() {
		fmt.Println("headersyncd died with a fatal error. Check the log for details.")
	})
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("headersyncd")
	}

	replacer := strings.NewReplacer("-", "_")
	viper.SetEnvKeyReplacer(replacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
