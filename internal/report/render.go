package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/rs/zerolog/log"

	"github.com/mocap-lab/glove-cluster/internal/cluster"
	"github.com/mocap-lab/glove-cluster/internal/eval"
)

// Renderer writes the analysis charts as static html pages into one
// directory, prefixed with the run id so consecutive runs do not clobber
// each other.
type Renderer struct {
	dir string
	run string
}

// New creates a renderer writing into dir.
func New(dir, run string) (*Renderer, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("could not create report dir %s: %w", dir, err)
	}
	return &Renderer{dir: dir, run: run}, nil
}

func (r *Renderer) write(name string, render func(f *os.File) error) error {
	path := filepath.Join(r.dir, fmt.Sprintf("%s_%s.html", r.run, name))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", path, err)
	}
	defer f.Close()
	if err := render(f); err != nil {
		return fmt.Errorf("could not render %s: %w", path, err)
	}
	log.Info().Str("path", path).Msg("rendered chart")
	return nil
}

// ScatterPCA plots the observations on their first two principal
// components, one series per cluster.
func (r *Renderer) ScatterPCA(name, title string, data [][]float64, guesses []int) error {
	points, err := project(data)
	if err != nil {
		return err
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title}))

	series := make(map[int][]opts.ScatterData)
	for i, p := range points {
		series[guesses[i]] = append(series[guesses[i]], opts.ScatterData{
			Value:      []interface{}{p[0], p[1]},
			SymbolSize: 5,
		})
	}
	labels := make([]int, 0, len(series))
	for label := range series {
		labels = append(labels, label)
	}
	sort.Ints(labels)
	for _, label := range labels {
		scatter.AddSeries(fmt.Sprintf("cluster %d", label), series[label])
	}

	return r.write(name, func(f *os.File) error {
		return scatter.Render(f)
	})
}

// SizeBars plots the sorted cluster-size fractions of an assignment next
// to those of the ground-truth grouping.
func (r *Renderer) SizeBars(name, title string, d eval.Distribution) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title}))

	ranks := len(d.Predicted)
	if len(d.Truth) > ranks {
		ranks = len(d.Truth)
	}
	axis := make([]string, ranks)
	for i := range axis {
		axis[i] = fmt.Sprintf("#%d", i+1)
	}

	bar.SetXAxis(axis).
		AddSeries("predicted", barData(d.Predicted)).
		AddSeries("truth", barData(d.Truth))

	return r.write(name, func(f *os.File) error {
		return bar.Render(f)
	})
}

// Curve plots a quality curve over cluster counts, e.g. the elbow or the
// silhouette sweep.
func (r *Renderer) Curve(name, title string, curve []eval.Point) error {
	line := charts.NewLine()
	line.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title}))

	axis := make([]string, len(curve))
	values := make([]opts.LineData, len(curve))
	for i, p := range curve {
		axis[i] = fmt.Sprintf("k=%d", p.K)
		values[i] = opts.LineData{Value: p.Score}
	}
	line.SetXAxis(axis).AddSeries(title, values)

	return r.write(name, func(f *os.File) error {
		return line.Render(f)
	})
}

// SilhouettePlot plots the per-observation silhouette widths, grouped by
// cluster and sorted descending within each group.
func (r *Renderer) SilhouettePlot(name, title string, widths []float64, guesses []int) error {
	k := 0
	for _, g := range guesses {
		if g+1 > k {
			k = g + 1
		}
	}
	grouped := make([][]float64, k)
	for i, g := range guesses {
		grouped[g] = append(grouped[g], widths[i])
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title}))

	axis := make([]string, 0, len(widths))
	var flat []opts.BarData
	for c, ws := range grouped {
		sort.Sort(sort.Reverse(sort.Float64Slice(ws)))
		for i, w := range ws {
			axis = append(axis, fmt.Sprintf("c%d-%d", c, i))
			flat = append(flat, opts.BarData{Value: w})
		}
	}
	bar.SetXAxis(axis).AddSeries("silhouette", flat)

	return r.write(name, func(f *os.File) error {
		return bar.Render(f)
	})
}

// Dendrogram renders the merge tree of a hierarchical clustering.
func (r *Renderer) Dendrogram(name, title string, d *cluster.Dendrogram) error {
	merges := d.Merges()
	if len(merges) == 0 {
		return fmt.Errorf("empty dendrogram")
	}

	nodes := make(map[int]*opts.TreeData, d.Leaves()+len(merges))
	for i := 0; i < d.Leaves(); i++ {
		nodes[i] = &opts.TreeData{Name: fmt.Sprintf("%d", i)}
	}
	var root *opts.TreeData
	for t, m := range merges {
		node := &opts.TreeData{
			Name:     fmt.Sprintf("h=%.2f", m.Height),
			Children: []*opts.TreeData{nodes[m.A], nodes[m.B]},
		}
		nodes[d.Leaves()+t] = node
		root = node
	}

	tree := charts.NewTree()
	tree.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title}))
	tree.AddSeries("dendrogram", []opts.TreeData{*root})

	return r.write(name, func(f *os.File) error {
		return tree.Render(f)
	})
}

func barData(values []float64) []opts.BarData {
	out := make([]opts.BarData, len(values))
	for i, v := range values {
		out[i] = opts.BarData{Value: v}
	}
	return out
}
