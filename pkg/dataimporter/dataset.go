package dataimporter

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/travigo/journeyplanner/pkg/config"
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/database"
	"github.com/travigo/journeyplanner/pkg/dataimporter/citybus"
	"github.com/travigo/journeyplanner/pkg/http_client"
)

type Dataset struct {
	Stops  []ctdf.Stop
	Routes []ctdf.Route
}

// Load reads the dataset from the configured JSON files or URLs, or from MongoDB
func Load(ctx context.Context, cfg config.DatasetConfig, transport http_client.Transport) (*Dataset, error) {
	var dataset *Dataset
	var err error

	switch cfg.Format {
	case "mongodb":
		dataset, err = loadMongo(ctx, cfg)
	default:
		dataset, err = LoadFiles(ctx, cfg.Stops, cfg.Routes, transport)
	}
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("format", cfg.Format).
		Int("stops", len(dataset.Stops)).
		Int("routes", len(dataset.Routes)).
		Msg("Loaded dataset")

	return dataset, nil
}

// LoadFiles reads a stop document and a route document, each a file path or an http(s) URL
func LoadFiles(ctx context.Context, stopsLocation string, routesLocation string, transport http_client.Transport) (*Dataset, error) {
	stopsDocument, err := read(ctx, stopsLocation, transport)
	if err != nil {
		return nil, err
	}
	stops, err := citybus.ParseStops(bytes.NewReader(stopsDocument))
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", stopsLocation)
	}

	routesDocument, err := read(ctx, routesLocation, transport)
	if err != nil {
		return nil, err
	}
	routes, err := citybus.ParseRoutes(bytes.NewReader(routesDocument))
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", routesLocation)
	}

	return &Dataset{Stops: stops, Routes: routes}, nil
}

func loadMongo(ctx context.Context, cfg config.DatasetConfig) (*Dataset, error) {
	instance, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}
	defer instance.Disconnect(context.Background())

	stops, err := instance.LoadStops(ctx)
	if err != nil {
		return nil, err
	}

	routes, err := instance.LoadRoutes(ctx)
	if err != nil {
		return nil, err
	}

	return &Dataset{Stops: stops, Routes: routes}, nil
}

func read(ctx context.Context, location string, transport http_client.Transport) ([]byte, error) {
	if isRemote(location) {
		if transport == nil {
			transport = http_client.New(0, 2)
		}

		log.Debug().Str("url", location).Msg("Downloading dataset document")

		document, err := transport.Do(ctx, http_client.Request{Method: http.MethodGet, URL: location})
		if err != nil {
			return nil, errors.Wrapf(err, "downloading %s", location)
		}
		return document, nil
	}

	document, err := os.ReadFile(location)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", location)
	}
	return document, nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
