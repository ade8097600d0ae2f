package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"regionmap/config"
	domainerrors "regionmap/internal/domain/errors"
	"regionmap/internal/errors"
	"regionmap/internal/infra/geoadmin"
	"regionmap/internal/usecase/impl"
	"regionmap/internal/util"

	"github.com/paulmach/orb"
)

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func readPayload(path string) ([]byte, error) {
	if path == "-" {
		payload, err := io.ReadAll(os.Stdin)

		return payload, errors.Wrap(err, "failed to read stdin")
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	return payload, nil
}

func runValidate(w io.Writer, path string) error {
	payload, err := readPayload(path)
	if err != nil {
		return err
	}

	declarations, err := impl.NewRegionValidator(newLogger()).ValidateRegions(payload)
	if err != nil {
		var validationErr *domainerrors.ValidationError
		if errors.As(err, &validationErr) {
			fmt.Fprintf(w, "invalid: %s at %s: %s\n", validationErr.Code, validationErr.Details(), validationErr.Reason)
		}

		return errors.Wrap(err, "regions payload rejected")
	}

	fmt.Fprintf(w, "valid: %d regions (%s)\n", len(declarations), util.FormatBytes(int64(len(payload))))
	for i, declaration := range declarations {
		fmt.Fprintf(w, "  [%d] %s: %d sub-regions\n", i, declaration.Title, len(declaration.SubRegionIDs))
	}

	return nil
}

func runResolve(ctx context.Context, w io.Writer, path string, geodata *config.GeodataConfig) error {
	payload, err := readPayload(path)
	if err != nil {
		return err
	}

	logger := newLogger()
	declarations, err := impl.NewRegionValidator(logger).ValidateRegions(payload)
	if err != nil {
		return errors.Wrap(err, "regions payload rejected")
	}

	locator, err := geoadmin.NewLocator(
		geodata.BaseURL,
		geoadmin.GeometryFormat(geodata.GeometryFormat),
		geoadmin.SpatialReference(geodata.SpatialReference),
	)
	if err != nil {
		return errors.Wrap(err, "invalid geodata settings")
	}

	client, err := geoadmin.NewClient(locator, geodata.Timeout, logger)
	if err != nil {
		return errors.Wrap(err, "invalid geodata settings")
	}
	resolver := impl.NewRegionResolver(client, geodata.MaxConcurrentFetches, logger)

	started := time.Now()
	resolved := resolver.Resolve(ctx, declarations)

	missing := 0
	for _, region := range resolved {
		fetched := make(map[string]bool, len(region.Features))
		bound := orb.Bound{}
		for i, feature := range region.Features {
			fetched[feature.SubRegionID] = true
			if i == 0 {
				bound = feature.Feature.Geometry.Bound()
			} else {
				bound = bound.Union(feature.Feature.Geometry.Bound())
			}
		}

		fmt.Fprintf(w, "%s: %d/%d features", region.Declaration.Title, len(region.Features), len(region.Declaration.SubRegionIDs))
		if len(region.Features) > 0 {
			center := bound.Center()
			fmt.Fprintf(w, ", center %.5f,%.5f", center.Lat(), center.Lon())
		}
		fmt.Fprintln(w)

		for _, id := range region.Declaration.SubRegionIDs {
			if !fetched[id] {
				missing++
				fmt.Fprintf(w, "  missing %s (%s)\n", id, locator.Locate(id).URL())
			}
		}
	}

	fmt.Fprintf(w, "resolved %d regions in %s, %d sub-regions without geometry\n", len(resolved), util.FormatDuration(time.Since(started)), missing)

	return nil
}
