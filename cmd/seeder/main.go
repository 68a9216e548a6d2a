package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/poiesic/homematch"
	"github.com/poiesic/homematch/core"
	"github.com/poiesic/homematch/index"
)

var listings = []*core.Listing{
	{
		Title:                   "Altbau Charm in Prenzlauer Berg",
		Location:                "Berlin",
		Neighborhood:            "Prenzlauer Berg",
		Price:                   585000,
		SquareFeet:              1130,
		Bedrooms:                3,
		Bathrooms:               1,
		Amenities:               []string{"Balcony", "Hardwood Floors", "Elevator"},
		Description:             "Stucco ceilings and herringbone parquet in a quiet courtyard building from 1905.",
		NeighborhoodDescription: "Leafy streets with weekend markets at Kollwitzplatz and cafes on every corner.",
	},
	{
		Title:                   "Canal-Side Loft with Roof Terrace",
		Location:                "Berlin",
		Neighborhood:            "Kreuzberg",
		Price:                   729000,
		SquareFeet:              1480,
		Bedrooms:                2,
		Bathrooms:               2,
		Amenities:               []string{"Roof Terrace", "Underfloor Heating", "Open Kitchen"},
		Description:             "Converted factory floor with exposed brick, steel beams, and a private terrace over the Landwehrkanal.",
		NeighborhoodDescription: "Galleries, late-night markets, and the canal promenade right downstairs.",
	},
	{
		Title:                   "Family Garden Flat in Wedding",
		Location:                "Berlin",
		Neighborhood:            "Wedding",
		Price:                   398000,
		SquareFeet:              1020,
		Bedrooms:                3,
		Bathrooms:               1,
		Amenities:               []string{"Garden", "Cellar", "Bike Room"},
		Description:             "Ground-floor flat opening onto a shared garden, with a freshly renovated kitchen and bath.",
		NeighborhoodDescription: "A quiet, changing quarter with fast U-Bahn links into the center.",
	},
	{
		Title:                   "Penthouse above the Isar",
		Location:                "Munich",
		Neighborhood:            "Au-Haidhausen",
		Price:                   1250000,
		SquareFeet:              1610,
		Bedrooms:                3,
		Bathrooms:               2,
		Amenities:               []string{"Roof Terrace", "Elevator", "Parking"},
		Description:             "Top-floor penthouse with a wraparound terrace and Alps views on clear days.",
		NeighborhoodDescription: "Riverside paths, beer gardens, and the French quarter's village feel.",
	},
	{
		Title:                   "Garden Maisonette in Schwabing",
		Location:                "Munich",
		Neighborhood:            "Schwabing",
		Price:                   980000,
		SquareFeet:              1340,
		Bedrooms:                3,
		Bathrooms:               2,
		Amenities:               []string{"Garden", "Fireplace", "Parking"},
		Description:             "Two-level maisonette with a private garden share and an open fireplace in the living room.",
		NeighborhoodDescription: "Bookshops, bars, and the Englischer Garten within walking distance.",
	},
	{
		Title:                   "Compact Studio near Olympiapark",
		Location:                "Munich",
		Neighborhood:            "Milbertshofen",
		Price:                   365000,
		SquareFeet:              480,
		Bedrooms:                1,
		Bathrooms:               1,
		Amenities:               []string{"Balcony", "Elevator"},
		Description:             "Efficient studio with a west-facing balcony, ideal as a first flat or pied-a-terre.",
		NeighborhoodDescription: "Park, pool, and U3 around the corner, with the BMW campus nearby.",
	},
	{
		Title:                   "Harbour View Apartment",
		Location:                "Hamburg",
		Neighborhood:            "HafenCity",
		Price:                   890000,
		SquareFeet:              1270,
		Bedrooms:                2,
		Bathrooms:               2,
		Amenities:               []string{"Floor-to-Ceiling Windows", "Elevator", "Concierge"},
		Description:             "Modern apartment with floor-to-ceiling glazing and ship traffic drifting past the window.",
		NeighborhoodDescription: "The Elbphilharmonie, waterfront promenades, and new cafes at the doorstep.",
	},
	{
		Title:                   "Townhouse by the Alster",
		Location:                "Hamburg",
		Neighborhood:            "Winterhude",
		Price:                   1100000,
		SquareFeet:              1950,
		Bedrooms:                4,
		Bathrooms:               3,
		Amenities:               []string{"Garden", "Sauna", "Garage"},
		Description:             "Classic townhouse over three floors with a south garden and a small sauna in the basement.",
		NeighborhoodDescription: "Canals, rowing clubs, and the Stadtpark a short stroll away.",
	},
	{
		Title:                   "Quiet Flat in Ottensen",
		Location:                "Hamburg",
		Neighborhood:            "Ottensen",
		Price:                   475000,
		SquareFeet:              880,
		Bedrooms:                2,
		Bathrooms:               1,
		Amenities:               []string{"Balcony", "Hardwood Floors"},
		Description:             "Bright two-room flat on a calm courtyard, with oak floors and a morning-sun balcony.",
		NeighborhoodDescription: "Former factory quarter full of small shops, cinemas, and weekend markets.",
	},
	{
		Title:                   "Rhine Promenade Apartment",
		Location:                "Cologne",
		Neighborhood:            "Deutz",
		Price:                   540000,
		SquareFeet:              1090,
		Bedrooms:                3,
		Bathrooms:               1,
		Amenities:               []string{"Balcony", "Elevator", "Cellar"},
		Description:             "Third-floor flat with a balcony facing the river and the cathedral panorama across the water.",
		NeighborhoodDescription: "Trade-fair quarter with the Rhine promenade and two bridges into the old town.",
	},
	{
		Title:                   "Belgian Quarter Altbau",
		Location:                "Cologne",
		Neighborhood:            "Belgisches Viertel",
		Price:                   620000,
		SquareFeet:              1180,
		Bedrooms:                3,
		Bathrooms:               2,
		Amenities:               []string{"Stucco Ceilings", "Balcony"},
		Description:             "High-ceilinged period flat with double doors and restored stucco throughout.",
		NeighborhoodDescription: "Boutiques, wine bars, and Brussels Square's evening buzz.",
	},
	{
		Title:                   "Suburban House with Garden",
		Location:                "Cologne",
		Neighborhood:            "Lindenthal",
		Price:                   785000,
		SquareFeet:              1720,
		Bedrooms:                4,
		Bathrooms:               2,
		Amenities:               []string{"Garden", "Garage", "Terrace"},
		Description:             "Detached family house with a mature garden, a sun terrace, and space for a home office.",
		NeighborhoodDescription: "Green, established streets near the city forest and university clinics.",
	},
	{
		Title:                   "Skyline View High-Rise",
		Location:                "Frankfurt",
		Neighborhood:            "Westend",
		Price:                   710000,
		SquareFeet:              960,
		Bedrooms:                2,
		Bathrooms:               2,
		Amenities:               []string{"Concierge", "Gym", "Parking"},
		Description:             "Fourteenth-floor apartment with the banking skyline filling the living room window.",
		NeighborhoodDescription: "Quiet embassy streets minutes from the Palmengarten and the old opera.",
	},
	{
		Title:                   "Renovated Altbau in Bornheim",
		Location:                "Frankfurt",
		Neighborhood:            "Bornheim",
		Price:                   495000,
		SquareFeet:              1010,
		Bedrooms:                3,
		Bathrooms:               1,
		Amenities:               []string{"Balcony", "Cellar"},
		Description:             "Carefully renovated period flat on Berger Strasse with a new kitchen and a rear balcony.",
		NeighborhoodDescription: "Street cafes, the weekly market, and a lively village core inside the city.",
	},
	{
		Title:                   "Riverside Family Home",
		Location:                "Frankfurt",
		Neighborhood:            "Sachsenhausen",
		Price:                   930000,
		SquareFeet:              1830,
		Bedrooms:                4,
		Bathrooms:               3,
		Amenities:               []string{"Garden", "Terrace", "Garage"},
		Description:             "Spacious family home a block from the Main, with a walled garden and a large terrace.",
		NeighborhoodDescription: "Museum embankment on one side, apple-wine taverns on the other.",
	},
}

var seedFileName = flag.String("src", "", "CSV file of seed listings")

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// listingsFromFile reads seed listings from a CSV file.
func listingsFromFile(filename string) ([]*core.Listing, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return index.ReadListings(f)
}

func main() {
	catalog, err := homematch.NewCatalog("./listing_db")
	if err != nil {
		panic(err)
	}
	defer catalog.Close()

	indexer, err := catalog.NewIndexer()
	if err != nil {
		panic(err)
	}

	ctx := context.Background()

	// Determine source of seed data
	seed := listings
	if seedFileName != nil && *seedFileName != "" {
		seed, err = listingsFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
	}

	count, err := indexer.IndexListings(ctx, seed...)
	if err != nil {
		panic(err)
	}

	slog.Info("seeded catalog", "listings", count)
}
