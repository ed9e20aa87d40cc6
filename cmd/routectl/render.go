package main

import (
	"fmt"
	"io"
	"sort"

	"mondichat-be/pkg/classifier"
	"mondichat-be/pkg/query"
	"mondichat-be/pkg/reconciler"

	"github.com/fatih/color"
)

var stateColors = map[classifier.ColorState]*color.Color{
	classifier.ColorBlack:   color.New(color.FgHiWhite, color.BgBlack, color.Bold),
	classifier.ColorRed:     color.New(color.FgRed, color.Bold),
	classifier.ColorAmber:   color.New(color.FgYellow),
	classifier.ColorGreen:   color.New(color.FgGreen),
	classifier.ColorUnknown: color.New(color.FgHiBlack),
}

func paint(state classifier.ColorState, text string) string {
	c, ok := stateColors[state]
	if !ok {
		return text
	}
	return c.Sprint(text)
}

// routeGroup holds the classified clients of one route.
type routeGroup struct {
	Route   string
	Clients []query.Client
}

// classifyByRoute classifies each route separately, routes in code order.
func classifyByRoute(cls *classifier.Classifier, records []reconciler.Record) []routeGroup {
	byRoute := make(map[string][]reconciler.Record)
	for _, r := range records {
		byRoute[r.RouteCode] = append(byRoute[r.RouteCode], r)
	}
	groups := make([]routeGroup, 0, len(byRoute))
	for route, rs := range byRoute {
		groups = append(groups, routeGroup{Route: route, Clients: query.ClassifyRecords(cls, rs)})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Route < groups[j].Route })
	return groups
}

func renderGroups(w io.Writer, groups []routeGroup) {
	header := color.New(color.FgCyan, color.Bold)
	for _, g := range groups {
		route := g.Route
		if route == "" {
			route = "(sin ruta)"
		}
		header.Fprintf(w, "\nRuta %s · %d clientes\n", route, len(g.Clients))
		for _, c := range g.Clients {
			s := c.Summary
			fmt.Fprintf(w, "  %-10s %-28s %-10s %s  %s · %s\n",
				c.Code,
				truncate(c.Name, 28),
				truncate(c.Day, 10),
				paint(s.Color, fmt.Sprintf("%-9s", s.Color.Label())),
				s.TypeDisplay,
				s.DistanceDisplay,
			)
		}
	}
}

func renderTotals(w io.Writer, groups []routeGroup) {
	counts := make(map[classifier.ColorState]int)
	for _, g := range groups {
		for _, c := range g.Clients {
			counts[c.Summary.Color]++
		}
	}
	fmt.Fprintln(w)
	for _, state := range []classifier.ColorState{
		classifier.ColorBlack, classifier.ColorRed, classifier.ColorAmber, classifier.ColorGreen, classifier.ColorUnknown,
	} {
		fmt.Fprintf(w, "%s %d  ", paint(state, state.Label()), counts[state])
	}
	fmt.Fprintln(w)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
