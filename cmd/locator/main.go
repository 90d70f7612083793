package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/astrafoundry/focalplane-locator/core"
	"github.com/astrafoundry/focalplane-locator/internal/astrometry"
	"github.com/astrafoundry/focalplane-locator/internal/logging"
	"github.com/astrafoundry/focalplane-locator/internal/observability"
	"github.com/astrafoundry/focalplane-locator/model"
)

// queryFileJSON is the on-disk query format: either celestial positions in
// degrees (with optional arcsec-based motion parameters) or raw field-angle
// points in radians.
type queryFileJSON struct {
	RADeg  []float64 `json:"ra_deg"`
	DecDeg []float64 `json:"dec_deg"`

	PMRAArcsec     []float64 `json:"pm_ra_arcsec"`
	PMDecArcsec    []float64 `json:"pm_dec_arcsec"`
	ParallaxArcsec []float64 `json:"parallax_arcsec"`
	RadialVelocity []float64 `json:"v_rad_km_s"`

	FieldX []float64 `json:"x"`
	FieldY []float64 `json:"y"`
}

func main() {
	// Best-effort env bootstrap; a missing .env is not an error.
	_ = godotenv.Load()

	cameraPath := flag.String("camera", "configs/camera.json", "path to the camera catalog JSON")
	queryPath := flag.String("queries", "", "path to the query catalog JSON")
	allowMultiple := flag.Bool("allow-multiple", false, "report every overlap-class detector containing a point")
	pixels := flag.Bool("pixels", false, "also print pixel coordinates on the resolved detector")
	withDistortion := flag.Bool("with-distortion", true, "apply the optical distortion model to pixel coordinates")
	metricsAddr := flag.String("metrics-addr", "", "if set, serve Prometheus metrics on this address (e.g. :9090)")

	obsTime := flag.String("obs-time", "", "observation epoch, RFC3339")
	pointingRA := flag.Float64("pointing-ra-deg", math.NaN(), "boresight RA, degrees")
	pointingDec := flag.Float64("pointing-dec-deg", math.NaN(), "boresight Dec, degrees")
	rotSkyPos := flag.Float64("rot-deg", math.NaN(), "field rotation, degrees")

	flag.Parse()

	ctx := context.Background()
	log := logging.NewFromEnv()

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		fatal(ctx, log, "init tracing", err)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdown, log)

	collector, err := observability.NewLookupCollector(prometheus.DefaultRegisterer)
	if err != nil {
		fatal(ctx, log, "register metrics", err)
	}
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Warn(ctx, "metrics server stopped", logging.String("error", err.Error()))
			}
		}()
		log.Info(ctx, "serving metrics", logging.String("addr", *metricsAddr))
	}

	f, err := os.Open(*cameraPath)
	if err != nil {
		fatal(ctx, log, "open camera catalog", err)
	}
	camera, err := core.LoadCameraCatalog(f)
	f.Close()
	if err != nil {
		fatal(ctx, log, "load camera catalog", err)
	}
	log.Info(ctx, "loaded camera catalog",
		logging.String("path", *cameraPath),
		logging.Int("detectors", camera.Len()),
	)

	if *queryPath == "" {
		fatal(ctx, log, "read queries", fmt.Errorf("-queries is required"))
	}
	qf, err := os.Open(*queryPath)
	if err != nil {
		fatal(ctx, log, "open query catalog", err)
	}
	var queries queryFileJSON
	err = json.NewDecoder(qf).Decode(&queries)
	qf.Close()
	if err != nil {
		fatal(ctx, log, "decode query catalog", err)
	}

	locator := core.NewLocator(camera).
		WithSky(astrometry.NewProjector()).
		WithLogger(log).
		WithMetrics(collector)

	tracer := otel.Tracer("focalplane-locator/cmd")
	ctx, span := tracer.Start(ctx, "locator.batch")
	defer span.End()

	switch {
	case len(queries.FieldX) > 0:
		span.SetAttributes(attribute.Int("points", len(queries.FieldX)))
		runFieldQueries(ctx, log, locator, queries, *allowMultiple)
	default:
		span.SetAttributes(attribute.Int("points", len(queries.RADeg)))
		runSkyQueries(ctx, log, locator, queries, observationFromFlags(*obsTime, *pointingRA, *pointingDec, *rotSkyPos),
			*allowMultiple, *pixels, *withDistortion)
	}
}

func runFieldQueries(ctx context.Context, log logging.Logger, locator *core.Locator, q queryFileJSON, allowMultiple bool) {
	if len(q.FieldX) != len(q.FieldY) {
		fatal(ctx, log, "validate queries", fmt.Errorf("x has length %d, y has length %d", len(q.FieldX), len(q.FieldY)))
	}
	points := make([]core.Vec2, len(q.FieldX))
	for i := range points {
		points[i] = core.Vec2{X: q.FieldX[i], Y: q.FieldY[i]}
	}
	results, err := locator.Lookup(ctx, points, allowMultiple)
	if err != nil {
		fatal(ctx, log, "lookup", err)
	}
	for i, r := range results {
		fmt.Printf("%d\t%s\n", i, r)
	}
}

func runSkyQueries(ctx context.Context, log logging.Logger, locator *core.Locator, q queryFileJSON, obs model.Observation, allowMultiple, pixels, withDistortion bool) {
	motion := model.MotionParams{
		PMRA:           q.PMRAArcsec,
		PMDec:          q.PMDecArcsec,
		Parallax:       q.ParallaxArcsec,
		RadialVelocity: q.RadialVelocity,
	}

	results, err := locator.SkyLookupDegrees(ctx, q.RADeg, q.DecDeg, motion, obs, allowMultiple)
	if err != nil {
		fatal(ctx, log, "sky lookup", err)
	}

	var pix []core.PixelPoint
	if pixels {
		names := make([]string, len(results))
		for i, r := range results {
			names[i] = r.Detector()
		}
		ra := make([]float64, len(q.RADeg))
		dec := make([]float64, len(q.DecDeg))
		for i := range q.RADeg {
			ra[i] = q.RADeg[i] * math.Pi / 180
			dec[i] = q.DecDeg[i] * math.Pi / 180
		}
		pix, err = locator.PixelLookup(ctx, ra, dec, motion.InRadians(), obs, names, withDistortion)
		if err != nil {
			fatal(ctx, log, "pixel lookup", err)
		}
	}

	for i, r := range results {
		if pixels {
			fmt.Printf("%d\t%s\t%.3f\t%.3f\n", i, r, pix[i].X, pix[i].Y)
		} else {
			fmt.Printf("%d\t%s\n", i, r)
		}
	}
}

// observationFromFlags builds the observation metadata from whichever
// flags were supplied; missing fields stay unset so validation can name
// them.
func observationFromFlags(obsTime string, raDeg, decDeg, rotDeg float64) model.Observation {
	var obs model.Observation
	if obsTime != "" {
		if t, err := time.Parse(time.RFC3339, obsTime); err == nil {
			obs.Time = t
		}
	}
	if !math.IsNaN(raDeg) && !math.IsNaN(decDeg) {
		ra := raDeg * math.Pi / 180
		dec := decDeg * math.Pi / 180
		obs.PointingRA = &ra
		obs.PointingDec = &dec
	}
	if !math.IsNaN(rotDeg) {
		rot := rotDeg * math.Pi / 180
		obs.RotSkyPos = &rot
	}
	return obs
}

func fatal(ctx context.Context, log logging.Logger, what string, err error) {
	log.Error(ctx, what, logging.String("error", err.Error()))
	os.Exit(1)
}
