package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/lorekeep/packev/catalog"
	"github.com/lorekeep/packev/config"
	"github.com/lorekeep/packev/dataloaders"
	"github.com/lorekeep/packev/ev"
	"github.com/lorekeep/packev/packmodel"
	"github.com/lorekeep/packev/pricefeed"
	"github.com/lorekeep/packev/rarity"
	"github.com/lorekeep/packev/summary"
)

var (
	configPath = flag.String("config", "", "path to config file")
	setCode    = flag.String("set", "", "scope the report to one set code")
	scenario   = flag.String("scenario", "", "pack model scenario to apply")
)

func main() {
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if *setCode != "" {
		cfg.Pricing.Set = *setCode
	}
	if *scenario != "" {
		cfg.Pricing.Scenario = *scenario
	}
	for _, alias := range cfg.Pricing.ChaseAliases {
		rarity.AddChaseAlias(alias)
	}

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("packev")
	}
}

func run(cfg *config.Config) error {
	cards, err := dataloaders.Catalog(cfg)
	if err != nil {
		return err
	}
	indexes, err := dataloaders.Sources(cfg)
	if err != nil {
		return err
	}
	model, err := dataloaders.PackModel(cfg)
	if err != nil {
		return err
	}
	model, err = packmodel.ApplyScenario(model, cfg.Pricing.Scenario)
	if err != nil {
		return err
	}

	printings := catalog.ExpandPrintings(cards)
	field := pricefeed.ParseField(cfg.Pricing.Field)
	rec := pricefeed.NewReconciler(indexes, cfg.Pricing.Sources)

	summaries := summary.Build(printings, rec.Lookup(field), cfg.Pricing.Set)
	if len(summaries) == 0 {
		// Distinct from a computed EV of zero: we have no prices at all
		// for this scope.
		fmt.Printf("no pricing data available for scope %q\n", scopeName(cfg))
		return nil
	}

	printSummaryTable(summaries)

	scoped := printings
	if cfg.Pricing.Set != "" {
		scoped = lo.Filter(printings, func(p catalog.Printing, _ int) bool {
			return p.SetCode == cfg.Pricing.Set
		})
	}
	ids := lo.Map(scoped, func(p catalog.Printing, _ int) string { return p.ID })
	fmt.Println(coverageReport(rec, ids, field))

	bulk := ev.BulkFloor{Common: cfg.Pricing.BulkCommon, Uncommon: cfg.Pricing.BulkUncommon}
	packEV := ev.Pack(summaries, model, bulk)
	fmt.Printf("\nScope: %s\n", scopeName(cfg))
	fmt.Printf("Pack EV:  $%.2f\n", packEV)
	fmt.Printf("Box EV:   $%.2f  (%d packs)\n", ev.Box(packEV, model), model.PacksPerBox)
	fmt.Printf("Case EV:  $%.2f  (%d boxes)\n", ev.Case(packEV, model), model.BoxesPerCase)

	odds := ev.HitOdds(model)
	fmt.Printf("\nEnchanted hit odds: %.2f%% per pack, %.1f%% per box, %.1f%% per case\n",
		100*odds.PerPack, 100*odds.PerBox, 100*odds.PerCase)

	if cfg.Sim.Enabled {
		return runSim(cfg, summaries, model, bulk)
	}
	return nil
}

func runSim(cfg *config.Config, summaries map[summary.Key]summary.Summary,
	model *packmodel.Config, bulk ev.BulkFloor) error {

	sim := ev.NewSimulator(summaries, model, bulk)
	if cfg.Sim.Threads > 0 {
		sim.SetThreads(cfg.Sim.Threads)
	}
	res, err := sim.SimulateBoxes(context.Background(), cfg.Sim.Trials)
	if err != nil {
		return err
	}
	fmt.Printf("\nSimulated %d boxes: mean $%.2f±%.2f (99%% CI), p5 $%.2f, p50 $%.2f, p95 $%.2f\n",
		res.Trials, res.Mean, res.CI99, res.P5, res.P50, res.P95)

	hist := histogram.Hist(15, sim.Samples())
	return histogram.Fprint(os.Stdout, hist, histogram.Linear(40))
}

// coverageReport says, per source in priority order, how many printings
// that source supplies the reconciled price for. It is how a user tells
// "no data for this scope" apart from "these cards are worthless".
func coverageReport(rec *pricefeed.Reconciler, printingIDs []string, field pricefeed.Field) string {
	cov := rec.Coverage(printingIDs, field)
	priced := 0
	parts := make([]string, 0, len(rec.Priority()))
	for _, name := range rec.Priority() {
		parts = append(parts, fmt.Sprintf("%s %d/%d", name, cov[name], len(printingIDs)))
		priced += cov[name]
	}
	return fmt.Sprintf("Source coverage (%s): %s; %d of %d printings unpriced",
		field, strings.Join(parts, ", "), len(printingIDs)-priced, len(printingIDs))
}

func scopeName(cfg *config.Config) string {
	scope := cfg.Pricing.Set
	if scope == "" {
		scope = "all sets"
	}
	if cfg.Pricing.Scenario != "" {
		scope += " / scenario " + cfg.Pricing.Scenario
	}
	return scope
}

func printSummaryTable(summaries map[summary.Key]summary.Summary) {
	keys := make([]summary.Key, 0, len(summaries))
	for k := range summaries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Rarity != keys[j].Rarity {
			return keys[i].Rarity < keys[j].Rarity
		}
		return keys[i].Finish < keys[j].Finish
	})

	fmt.Printf("%-22s%8s%10s%10s%10s%10s\n", "Bucket", "Count", "Mean", "Median", "Min", "Max")
	fmt.Println(strings.Repeat("-", 70))
	for _, k := range keys {
		s := summaries[k]
		fmt.Printf("%-22s%8d%10.2f%10.2f%10.2f%10.2f\n",
			k.String(), s.Count, s.Mean, s.Median, s.Min, s.Max)
	}
}
