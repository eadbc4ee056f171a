// cmd/root.go
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/anirudhsk/meshtrace/sim"
	"github.com/anirudhsk/meshtrace/sim/filter"
	"github.com/anirudhsk/meshtrace/sim/filter/examples/height"
	"github.com/anirudhsk/meshtrace/sim/topology"
)

var (
	printGraph   bool
	pluginBinds  []string
	topologyPath string
	ticks        int64
	seed         int64
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "meshtrace",
	Short: "Discrete-event simulator for service-mesh distributed tracing experiments",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a trace-propagation simulation",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		spec, err := loadSpec()
		if err != nil {
			logrus.Fatalf("loading topology: %v", err)
		}
		if err := topology.ApplyPluginOverrides(spec, pluginBinds); err != nil {
			logrus.Fatalf("applying --plugin overrides: %v", err)
		}
		if seed != 0 {
			spec.Seed = seed
		}
		if ticks > 0 {
			spec.Ticks = ticks
		}

		registry := filter.NewRegistry()
		height.Register(registry)

		if printGraph {
			printTopology(spec)
		}

		rng := sim.NewPartitionedRNG(sim.NewSimulationKey(spec.Seed))
		simulator, sink, err := topology.Build(spec, registry, rng)
		if err != nil {
			logrus.Fatalf("building simulation: %v", err)
		}

		logrus.Infof("running %d ticks (seed=%d)", spec.Ticks, spec.Seed)
		simulator.Run(spec.Ticks)
		simulator.Metrics.Print(spec.Ticks)
		logrus.Infof("storage sink received %d records", sink.Len())
	},
}

// loadSpec returns the --topology file's spec, or the bundled demo topology
// (productpage-v1 -> reviews-v1 -> ratings-v1, each running the bundled
// height filter) when none was given.
func loadSpec() (*topology.Spec, error) {
	if topologyPath != "" {
		return topology.Load(topologyPath)
	}
	return demoSpec(), nil
}

func demoSpec() *topology.Spec {
	return &topology.Spec{
		Seed:  1,
		Ticks: 6,
		Nodes: []topology.NodeSpec{
			{ID: "productpage-v1", Capacity: 16, EgressRate: 4, GenerationRate: 1},
			{ID: "reviews-v1", Capacity: 16, EgressRate: 4},
			{ID: "ratings-v1", Capacity: 16, EgressRate: 4},
		},
		Edges: []topology.EdgeSpec{
			{ID: "pp-reviews", EndpointA: "productpage-v1", EndpointB: "reviews-v1", Latency: 1},
			{ID: "reviews-ratings", EndpointA: "reviews-v1", EndpointB: "ratings-v1", Latency: 1},
		},
		Plugins: []topology.PluginBinding{
			{Node: "productpage-v1", Name: height.Name, Properties: map[string]string{
				height.RootServiceProperty: "productpage-v1",
			}},
			{Node: "reviews-v1", Name: height.Name},
			{Node: "ratings-v1", Name: height.Name},
		},
	}
}

func printTopology(spec *topology.Spec) {
	for _, n := range spec.Nodes {
		logrus.Infof("node %s: capacity=%d egress_rate=%d generation_rate=%d",
			n.ID, n.Capacity, n.EgressRate, n.GenerationRate)
	}
	for _, e := range spec.Edges {
		logrus.Infof("edge %s: %s <-> %s latency=%d unidirectional=%t",
			e.ID, e.EndpointA, e.EndpointB, e.Latency, e.Unidirectional)
	}
}

// Execute runs the root command; a non-nil error exits with status 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().BoolVar(&printGraph, "print-graph", false, "emit the node/edge topology to stderr before running")
	runCmd.Flags().StringArrayVar(&pluginBinds, "plugin", nil, "bind a filter to a node as node=path (repeatable); bare names resolve in the static registry, .so paths load dynamically")
	runCmd.Flags().StringVar(&topologyPath, "topology", "", "YAML topology file; defaults to the bundled productpage/reviews/ratings demo")
	runCmd.Flags().Int64Var(&ticks, "ticks", 0, "number of ticks to run (0 keeps the topology's own default)")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "master seed for the per-node PartitionedRNG (0 keeps the topology's own default)")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(runCmd)
}
