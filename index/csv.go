package index

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/poiesic/homematch/core"
	"github.com/poiesic/homematch/prefs"
)

// csvHeader is the canonical column order of a catalog CSV file.
var csvHeader = []string{
	"title",
	"location",
	"neighborhood",
	"price",
	"square_feet",
	"number_of_bedrooms",
	"number_of_bathrooms",
	"amenities",
	"description",
	"neighborhood_description",
}

// DecodeAmenities interprets an amenities cell. A JSON-encoded list decodes
// to its elements; any other non-empty value becomes a single amenity.
func DecodeAmenities(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	var amenities []string
	if err := json.Unmarshal([]byte(s), &amenities); err == nil {
		return amenities
	}
	return []string{s}
}

// ReadListings parses a catalog CSV file. The header must match csvHeader
// exactly. Malformed numeric cells are recovered with logged defaults rather
// than failing the row; prefs options control that recovery (tests inject a
// deterministic random source).
func ReadListings(r io.Reader, opts ...prefs.Option) ([]*core.Listing, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrInvalidHeader
		}
		return nil, err
	}
	if !slices.Equal(header, csvHeader) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHeader, header)
	}

	normalizer := prefs.NewNormalizer(opts...)

	var listings []*core.Listing
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		listings = append(listings, &core.Listing{
			Title:                   record[0],
			Location:                record[1],
			Neighborhood:            record[2],
			Price:                   normalizer.ParsePrice(record[3]),
			SquareFeet:              normalizer.ParseFloat(record[4], 1000),
			Bedrooms:                normalizer.ParseCount(record[5]),
			Bathrooms:               normalizer.ParseCount(record[6]),
			Amenities:               DecodeAmenities(record[7]),
			Description:             record[8],
			NeighborhoodDescription: record[9],
		})
	}

	return listings, nil
}

// WriteListings writes the listings as a catalog CSV file, amenities
// JSON-encoded into a single cell.
func WriteListings(w io.Writer, listings []*core.Listing) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, listing := range listings {
		amenities, err := encodeAmenities(listing.Amenities)
		if err != nil {
			return err
		}

		record := []string{
			listing.Title,
			listing.Location,
			listing.Neighborhood,
			strconv.FormatFloat(listing.Price, 'f', -1, 64),
			strconv.FormatFloat(listing.SquareFeet, 'f', -1, 64),
			strconv.Itoa(listing.Bedrooms),
			strconv.Itoa(listing.Bathrooms),
			amenities,
			listing.Description,
			listing.NeighborhoodDescription,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func encodeAmenities(amenities []string) (string, error) {
	if len(amenities) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(amenities)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
