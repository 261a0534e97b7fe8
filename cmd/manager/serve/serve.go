/*
Copyright 2025 The CDM Spark Manager authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package serve

import (
	"flag"
	"os"

	// Import all Kubernetes client auth plugins (e.g. Azure, GCP, OIDC, etc.)
	// to ensure that exec-entrypoint and run can make use of them.
	_ "k8s.io/client-go/plugin/pkg/client/auth"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logzap "sigs.k8s.io/controller-runtime/pkg/log/zap"

	sparkmanager "github.com/kbase/cdm-spark-manager"
	"github.com/kbase/cdm-spark-manager/internal/auth"
	"github.com/kbase/cdm-spark-manager/internal/cluster"
	"github.com/kbase/cdm-spark-manager/internal/config"
	"github.com/kbase/cdm-spark-manager/internal/metrics"
	"github.com/kbase/cdm-spark-manager/internal/server"
)

var (
	scheme = runtime.NewScheme()
	logger = ctrl.Log.WithName("")
)

var (
	bindAddress string

	enableMetrics bool

	rateLimit float64
	rateBurst int

	development bool
	zapOptions  = logzap.Options{}
)

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
}

func NewCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "serve",
		Short: "Start the Spark cluster manager API server",
		PreRun: func(_ *cobra.Command, args []string) {
			development = viper.GetBool("development")
		},
		Run: func(_ *cobra.Command, args []string) {
			sparkmanager.PrintVersion(false)
			start()
		},
	}

	command.Flags().StringVar(&bindAddress, "bind-address", ":8000", "The address the API server binds to.")
	command.Flags().BoolVar(&enableMetrics, "enable-metrics", true, "Enable cluster lifecycle metrics on /metrics.")
	command.Flags().Float64Var(&rateLimit, "rate-limit", 10, "Per-user request rate limit in requests per second. 0 disables limiting.")
	command.Flags().IntVar(&rateBurst, "rate-burst", 20, "Per-user request burst size.")

	flagSet := flag.NewFlagSet("serve", flag.ExitOnError)
	zapOptions.BindFlags(flagSet)
	command.Flags().AddGoFlagSet(flagSet)

	return command
}

func start() {
	setupLog()

	cfg, err := config.Load()
	if err != nil {
		logger.Error(err, "Failed to load configuration")
		os.Exit(1)
	}

	// Use kubeconfig if given, otherwise assume in-cluster.
	restConfig, err := ctrl.GetConfig()
	if err != nil {
		logger.Error(err, "Failed to get kube config")
		os.Exit(1)
	}

	k8sClient, err := client.New(restConfig, client.Options{Scheme: scheme})
	if err != nil {
		logger.Error(err, "Failed to create Kubernetes client")
		os.Exit(1)
	}

	var clusterMetrics *metrics.ClusterMetrics
	if enableMetrics {
		clusterMetrics = metrics.NewClusterMetrics()
		clusterMetrics.Register()
	}

	manager, err := cluster.NewManager(k8sClient, cfg, clusterMetrics)
	if err != nil {
		logger.Error(err, "Failed to create cluster manager")
		os.Exit(1)
	}

	authenticator := auth.NewKBaseAuth(cfg.AuthURL, cfg.AdminRoles)

	srv := server.New(manager, authenticator, logger.WithName("server"), server.Options{
		BindAddress: bindAddress,
		RateLimit:   rateLimit,
		RateBurst:   rateBurst,
	})

	logger.Info("Starting Spark cluster manager", "namespace", cfg.Namespace, "image", cfg.Image)
	if err := srv.Run(ctrl.SetupSignalHandler()); err != nil {
		logger.Error(err, "Server exited with error")
		os.Exit(1)
	}
}

// setupLog configures the logging system.
func setupLog() {
	ctrl.SetLogger(logzap.New(
		logzap.UseFlagOptions(&zapOptions),
		func(o *logzap.Options) {
			o.Development = development
		}, func(o *logzap.Options) {
			o.ZapOpts = append(o.ZapOpts, zap.AddCaller())
		}, func(o *logzap.Options) {
			var config zapcore.EncoderConfig
			if !development {
				config = zap.NewProductionEncoderConfig()
			} else {
				config = zap.NewDevelopmentEncoderConfig()
				config.EncodeLevel = zapcore.CapitalColorLevelEncoder
			}
			config.EncodeTime = zapcore.ISO8601TimeEncoder
			config.EncodeCaller = zapcore.ShortCallerEncoder
			if !development {
				o.Encoder = zapcore.NewJSONEncoder(config)
			} else {
				o.Encoder = zapcore.NewConsoleEncoder(config)
			}
		}),
	)
}
