package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"
	"gopkg.in/yaml.v3"

	"causeway-metamodel/internal/beansort"
	"causeway-metamodel/internal/config"
	"causeway-metamodel/internal/loader"
)

func createMetaModel(cfg *config.Config) (*loader.Loader, error) {
	l, err := loader.Load(cfg)
	if err != nil {
		return nil, err
	}

	if err := l.CreateMetaModel(context.Background()); err != nil {
		return nil, err
	}

	return l, nil
}

func validateCmd(cfg *config.Config, w io.Writer) error {
	l, err := createMetaModel(cfg)
	if err != nil {
		return err
	}
	defer l.DisposeMetaModel()

	failures := l.Validate()
	if !failures.HasFailures() {
		fmt.Fprintf(w, "%d specifications, no failures\n", len(l.Snapshot()))
		return nil
	}

	fmt.Fprint(w, failures.Report())

	return errFailures
}

func classifyCmd(cfg *config.Config, w io.Writer) error {
	l, err := loader.Load(cfg)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SORT\tRULE\tCLASS")

	graph := l.Graph()
	for _, className := range graph.ClassNames() {
		t, _ := graph.Lookup(className)
		sort, rule := beansort.Explain(t)
		fmt.Fprintf(tw, "%s\t%s\t%s\n", sort, rule, className)
	}

	return tw.Flush()
}

func dumpCmd(cfg *config.Config, w io.Writer) error {
	l, err := createMetaModel(cfg)
	if err != nil {
		return err
	}
	defer l.DisposeMetaModel()

	sc := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
	for _, s := range buildExport(l).Specs {
		sc.Fdump(w, s)
	}

	return nil
}

func exportCmd(cfg *config.Config, w io.Writer) error {
	l, err := createMetaModel(cfg)
	if err != nil {
		return err
	}
	defer l.DisposeMetaModel()

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(buildExport(l)); err != nil {
		return fmt.Errorf("failed to encode metamodel: %w", err)
	}

	return enc.Close()
}

func configCmd(cfg *config.Config, w io.Writer) error {
	data, err := config.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	_, err = w.Write(data)

	return err
}
