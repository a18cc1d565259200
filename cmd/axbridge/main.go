package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"log"

	"github.com/robotalks/axpose/pkg/ax/seq"
	"github.com/robotalks/axpose/pkg/bridge"
	"github.com/robotalks/axpose/pkg/bridge/mqtt"
	"github.com/robotalks/axpose/pkg/env"
	fx "github.com/robotalks/axpose/pkg/framework"
	"github.com/robotalks/axpose/pkg/metrics"
)

func init() {
	env.SetupFlags()
}

func main() {
	flag.Parse()
	conf := env.Default()

	var lib *seq.Library
	if conf.Library != "" {
		var err error
		if lib, err = seq.LoadLibraryFile(conf.Library); err != nil {
			log.Fatalln(err)
		}
	}

	client, err := conf.Open()
	if err != nil {
		log.Fatalln(err)
	}
	defer client.Close()

	broker, err := mqtt.Dial(conf.MQTTURL, "axbridge-"+conf.BridgeID)
	if err != nil {
		log.Fatalln(err)
	}
	defer broker.Close()

	poseSize := conf.PoseSize
	if lib != nil && lib.PoseSize > 0 {
		poseSize = lib.PoseSize
	}

	runner := fx.NewRunner(context.Background()).HandleSignals()
	if conf.MetricsAddr != "" {
		reg := metrics.NewRegistry()
		client.Observer = metrics.NewCollector(reg)
		runner.Go(fx.Named("metrics", fx.RunFunc(func(ctx context.Context) error {
			return metrics.Serve(ctx, conf.MetricsAddr, reg)
		})))
	}
	b := bridge.New(conf.BridgeID, conf.Port, broker, client, poseSize, lib)
	runner.Go(fx.Named("bridge", b))
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
