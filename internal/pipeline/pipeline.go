package pipeline

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mocap-lab/glove-cluster/internal/cluster"
	"github.com/mocap-lab/glove-cluster/internal/eval"
	"github.com/mocap-lab/glove-cluster/internal/frame"
	"github.com/mocap-lab/glove-cluster/internal/report"
	"github.com/mocap-lab/glove-cluster/internal/storage"
)

// Config carries the knobs of one analysis run. All of them are plain
// data so the whole run is reproducible from the config and the input
// file alone.
type Config struct {
	Input              string    `json:"input"`
	Sentinels          []string  `json:"sentinels"`
	GestureColumn      string    `json:"gesture_column"`
	SubjectColumn      string    `json:"subject_column"`
	Seed               int64     `json:"seed"`
	SampleSize         int       `json:"sample_size"`
	ClusterCounts      []int     `json:"cluster_counts"`
	Sweep              []int     `json:"sweep"`
	FuzzyClusters      int       `json:"fuzzy_clusters"`
	FuzzinessExponents []float64 `json:"fuzziness_exponents"`
	ReportDir          string    `json:"report_dir"`
}

// hypothesis is one grouping assumption under which the dataset is imputed
// and clustered independently.
type hypothesis struct {
	name string
	key  string
}

// Pipeline runs the whole analysis: load, impute per hypothesis, sample,
// standardize, cluster with every engine, evaluate, persist, render.
// Everything is synchronous; a run either completes or fails outright.
type Pipeline struct {
	cfg    Config
	run    string
	store  storage.Persistence
	render *report.Renderer
}

// New creates a pipeline for the given config, storing evaluation
// artifacts through the given shard.
func New(cfg Config, shard storage.Shard) (*Pipeline, error) {
	if cfg.FuzzyClusters < 1 {
		cfg.FuzzyClusters = 5
	}
	run := uuid.New().String()[:8]

	store, err := shard("eval")
	if err != nil {
		return nil, fmt.Errorf("could not create store: %w", err)
	}
	render, err := report.New(cfg.ReportDir, run)
	if err != nil {
		return nil, fmt.Errorf("could not create renderer: %w", err)
	}
	return &Pipeline{
		cfg:    cfg,
		run:    run,
		store:  store,
		render: render,
	}, nil
}

// Run executes the full analysis for both grouping hypotheses.
func (p *Pipeline) Run() error {
	f, err := frame.Load(p.cfg.Input, frame.WithSentinels(p.cfg.Sentinels...))
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	features := make([]string, 0, f.Cols())
	for _, name := range f.Names() {
		if name == p.cfg.GestureColumn || name == p.cfg.SubjectColumn {
			continue
		}
		features = append(features, name)
	}

	hypotheses := []hypothesis{
		{name: "subject", key: p.cfg.SubjectColumn},
		{name: "gesture", key: p.cfg.GestureColumn},
	}
	for _, h := range hypotheses {
		if err := p.analyse(f, h, features); err != nil {
			return fmt.Errorf("hypothesis %s: %w", h.name, err)
		}
	}

	log.Info().Str("run", p.run).Msg("analysis finished")
	return nil
}

// Id returns the run id stamped on artifacts and report files.
func (p *Pipeline) Id() string {
	return p.run
}

func (p *Pipeline) analyse(f *frame.Frame, h hypothesis, features []string) error {
	imputed, err := frame.Impute(f, h.key, features)
	if err != nil {
		return fmt.Errorf("impute: %w", err)
	}

	sampled, err := frame.Sample(imputed, p.cfg.SampleSize, p.cfg.Seed)
	if err != nil {
		return fmt.Errorf("sample: %w", err)
	}

	matrix, err := sampled.Matrix(features)
	if err != nil {
		return err
	}
	std, degenerate := frame.Standardize(matrix)
	if len(degenerate) > 0 {
		log.Warn().
			Str("hypothesis", h.name).
			Ints("columns", degenerate).
			Msg("dropped zero-variance columns to zero")
	}

	truth, err := sampled.Labels(h.key)
	if err != nil {
		return err
	}

	if err := p.sweeps(std, h); err != nil {
		return err
	}
	if err := p.hardEngines(std, truth, h); err != nil {
		return err
	}
	return p.fuzzy(std, h)
}

// sweeps computes the elbow and silhouette curves over the configured
// range of cluster counts.
func (p *Pipeline) sweeps(std [][]float64, h hypothesis) error {
	elbow, err := eval.ElbowCurve(std, p.cfg.Sweep, p.cfg.Seed)
	if err != nil {
		return fmt.Errorf("elbow: %w", err)
	}
	if err := p.persist(h, "elbow", elbow); err != nil {
		return err
	}
	if err := p.render.Curve(h.name+"_elbow", "within-cluster sum of squares", elbow); err != nil {
		return err
	}

	sweep, best, err := eval.SilhouetteSweep(std, p.cfg.Sweep, p.cfg.Seed)
	if err != nil {
		return fmt.Errorf("silhouette sweep: %w", err)
	}
	log.Info().
		Str("hypothesis", h.name).
		Int("best-k", best).
		Msg("silhouette sweep")
	if err := p.persist(h, "silhouette", sweep); err != nil {
		return err
	}
	return p.render.Curve(h.name+"_silhouette", "average silhouette width", sweep)
}

// hardEngines compares the three hard clustering engines against the
// ground-truth grouping at every configured cluster count.
func (p *Pipeline) hardEngines(std [][]float64, truth []float64, h hypothesis) error {
	for _, k := range p.cfg.ClusterCounts {
		km, err := cluster.NewKMeans(k, 100, p.cfg.Seed)
		if err != nil {
			return err
		}
		ag, err := cluster.NewAgglomerative(k)
		if err != nil {
			return err
		}
		dv, err := cluster.NewDivisive(k, false)
		if err != nil {
			return err
		}

		engines := map[string]cluster.HardClusterer{
			"kmeans":        km,
			"agglomerative": ag,
			"divisive":      dv,
		}
		for _, name := range []string{"kmeans", "agglomerative", "divisive"} {
			engine := engines[name]
			if err := engine.Learn(std); err != nil {
				return fmt.Errorf("%s k=%d: %w", name, k, err)
			}
			d := eval.CompareSizes(engine.Guesses(), truth)
			label := fmt.Sprintf("%s_k%d_sizes", name, k)
			if err := p.persist(h, label, d); err != nil {
				return err
			}
			if err := p.render.SizeBars(h.name+"_"+label, fmt.Sprintf("%s k=%d size fractions vs %s", name, k, h.name), d); err != nil {
				return err
			}
		}

		tag := fmt.Sprintf("%s_kmeans_k%d", h.name, k)
		if err := p.render.ScatterPCA(tag, fmt.Sprintf("k-means k=%d on first two principal components", k), std, km.Guesses()); err != nil {
			return err
		}
		if k >= 2 {
			_, widths, err := eval.Silhouette(std, km.Guesses())
			if err != nil {
				return err
			}
			if err := p.render.SilhouettePlot(tag+"_silhouette", fmt.Sprintf("silhouette widths, k=%d", k), widths, km.Guesses()); err != nil {
				return err
			}
		}
	}

	// one dendrogram per engine family is enough for the report
	ag, err := cluster.NewAgglomerative(1)
	if err != nil {
		return err
	}
	if err := ag.Learn(std); err != nil {
		return err
	}
	if err := p.render.Dendrogram(h.name+"_agglomerative_tree", "agglomerative merge tree (ward)", ag.Dendrogram()); err != nil {
		return err
	}
	dv, err := cluster.NewDivisive(1, false)
	if err != nil {
		return err
	}
	if err := dv.Learn(std); err != nil {
		return err
	}
	return p.render.Dendrogram(h.name+"_divisive_tree", "divisive split tree", dv.Dendrogram())
}

// fuzzy runs the soft engine per configured exponent and records the
// crispness diagnostic, so a degenerate solution is visible in the
// artifacts and not just in a log line.
func (p *Pipeline) fuzzy(std [][]float64, h hypothesis) error {
	for _, m := range p.cfg.FuzzinessExponents {
		fc, err := cluster.NewFuzzyCMeans(p.cfg.FuzzyClusters, m, 200, p.cfg.Seed)
		if err != nil {
			return err
		}
		if err := fc.Learn(std); err != nil {
			return fmt.Errorf("fuzzy m=%v: %w", m, err)
		}
		diag := fc.Diagnostics()
		if err := p.persist(h, fmt.Sprintf("fuzzy_m%v", m), diag); err != nil {
			return err
		}
		if diag.CompletelyFuzzy {
			log.Warn().
				Str("hypothesis", h.name).
				Float64("exponent", m).
				Float64("crispness", diag.Crispness).
				Msg("fuzzy solution is completely fuzzy, memberships carry no information")
			continue
		}
		tag := fmt.Sprintf("%s_fuzzy_m%v", h.name, m)
		if err := p.render.ScatterPCA(tag, fmt.Sprintf("fuzzy c-means m=%v, hardened", m), std, fc.Harden()); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) persist(h hypothesis, label string, value interface{}) error {
	key := storage.Key{Run: p.run, Hypothesis: h.name, Label: label}
	if err := p.store.Store(key, value); err != nil {
		return fmt.Errorf("could not persist %s: %w", key.Path(), err)
	}
	return nil
}
