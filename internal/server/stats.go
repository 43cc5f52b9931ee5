package server

import (
	"io"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Akamitori/qcvault/internal/model"
)

type count struct {
	Name  string
	Count int
}

// postsPerYear counts posts by publication year, oldest year first.
func postsPerYear(posts model.Posts) []count {
	byYear := map[int]int{}
	for _, p := range posts {
		byYear[p.Date.Year()]++
	}
	out := make([]count, 0, len(byYear))
	for year, n := range byYear {
		out = append(out, count{Name: strconv.Itoa(year), Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// tagUsage counts tag occurrences, most used first.
func tagUsage(posts model.Posts) []count {
	byTag := map[string]int{}
	for _, p := range posts {
		for _, tag := range p.Tags {
			byTag[tag]++
		}
	}
	out := make([]count, 0, len(byTag))
	for tag, n := range byTag {
		out = append(out, count{Name: tag, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func renderStats(w io.Writer, posts model.Posts) error {
	years := postsPerYear(posts)
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Posts per year"}))
	var barX []string
	var barY []opts.BarData
	for _, c := range years {
		barX = append(barX, c.Name)
		barY = append(barY, opts.BarData{Value: c.Count})
	}
	bar.SetXAxis(barX).AddSeries("Posts", barY)

	pie := charts.NewPie()
	pie.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Tags"}))
	var pieItems []opts.PieData
	for _, c := range tagUsage(posts) {
		pieItems = append(pieItems, opts.PieData{Name: c.Name, Value: c.Count})
	}
	pie.AddSeries("Tags", pieItems)

	page := components.NewPage()
	page.AddCharts(bar, pie)
	return page.Render(w)
}
