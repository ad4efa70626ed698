package main

import (
	"flag"
	"log"

	"github.com/rs/zerolog"

	"github.com/mocap-lab/glove-cluster/infra/config"
	"github.com/mocap-lab/glove-cluster/internal/pipeline"
	json_storage "github.com/mocap-lab/glove-cluster/internal/storage/file/json"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func main() {
	input := flag.String("input", "", "override the input table path from the config")
	seed := flag.Int64("seed", 0, "override the random seed from the config")
	flag.Parse()

	var cfg pipeline.Config
	config.MustLoad("analysis", &cfg)
	if *input != "" {
		cfg.Input = *input
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	shard := json_storage.BlobShard("analysis")

	p, err := pipeline.New(cfg, shard)
	if err != nil {
		log.Fatalf("error creating pipeline: %s", err.Error())
	}

	if err := p.Run(); err != nil {
		log.Fatalf("error running analysis: %s", err.Error())
	}
}
