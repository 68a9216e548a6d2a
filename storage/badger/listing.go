package badger

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/homematch/core"
	"github.com/poiesic/homematch/storage"
)

// ListingRepository implements storage.ListingRepository for BadgerDB.
type ListingRepository struct {
	backend *Backend
}

var _ storage.ListingRepository = (*ListingRepository)(nil)

// NewListingRepository creates a new ListingRepository.
func NewListingRepository(backend *Backend) (*ListingRepository, error) {
	return &ListingRepository{
		backend: backend,
	}, nil
}

// Close releases resources. ListingRepository has no resources to release.
func (r *ListingRepository) Close() error {
	return nil
}

// FindSimilar delegates to the backend.
func (r *ListingRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}

// WithTransaction delegates to the backend.
func (r *ListingRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddListings adds one or more listings to storage.
// IDs derive from the listing content, so adding the same listing twice is a
// no-op that returns the already stored record.
func (r *ListingRepository) AddListings(ctx context.Context, listings ...*core.Listing) ([]*core.Listing, error) {
	results := make([]*core.Listing, len(listings))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for i, listing := range listings {
			// Use content-based ID if not set
			if listing.Id == 0 {
				listing.Id = core.IDFromContent(listing.ContentKey())
			}

			key := makeListingKey(listing.Id)

			// Same content hashes to the same ID; keep the stored record
			existing, err := r.readListing(tx, key)
			if err != nil {
				return err
			}
			if existing != nil {
				results[i] = existing
				continue
			}

			// Set timestamps
			now := time.Now().UTC()
			if listing.InsertedAt.IsZero() {
				listing.InsertedAt = now
			}
			listing.UpdatedAt = now

			// Store primary record
			value := storage.MarshalListing(listing)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update date index
			dateKey := makeListingDateKey(listing.InsertedAt, listing.Id)
			if err := tx.Set(dateKey, storage.MarshalID(listing.Id)); err != nil {
				return err
			}

			// Update city index
			cityKey := makeListingCityKey(listing.Location, listing.Id)
			if err := tx.Set(cityKey, storage.MarshalID(listing.Id)); err != nil {
				return err
			}

			results[i] = listing
		}
		return tx.Commit()
	}, true)

	return results, err
}

// UpdateListings updates existing listings.
func (r *ListingRepository) UpdateListings(ctx context.Context, listings ...*core.Listing) ([]*core.Listing, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, listing := range listings {
			key := makeListingKey(listing.Id)

			// Read old listing to detect changes
			old, err := r.readListing(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			// Preserve the original insertion time unless the caller set one
			if listing.InsertedAt.IsZero() {
				listing.InsertedAt = old.InsertedAt
			}

			// Update timestamp
			listing.UpdatedAt = time.Now().UTC()

			// Store updated record
			value := storage.MarshalListing(listing)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update date index if insertion time changed
			if !old.InsertedAt.Equal(listing.InsertedAt) {
				oldDateKey := makeListingDateKey(old.InsertedAt, old.Id)
				if err := tx.Delete(oldDateKey); err != nil {
					return err
				}
				newDateKey := makeListingDateKey(listing.InsertedAt, listing.Id)
				if err := tx.Set(newDateKey, storage.MarshalID(listing.Id)); err != nil {
					return err
				}
			}

			// Update city index if the location changed
			if !strings.EqualFold(old.Location, listing.Location) {
				oldCityKey := makeListingCityKey(old.Location, old.Id)
				if err := tx.Delete(oldCityKey); err != nil {
					return err
				}
				newCityKey := makeListingCityKey(listing.Location, listing.Id)
				if err := tx.Set(newCityKey, storage.MarshalID(listing.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return listings, err
}

// DeleteListings removes listings by their IDs.
func (r *ListingRepository) DeleteListings(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeListingKey(id)

			// Read listing to get metadata for index cleanup
			listing, err := r.readListing(tx, key)
			if err != nil {
				return err
			}
			if listing == nil {
				return storage.ErrNotFound
			}

			// Delete from date index
			dateKey := makeListingDateKey(listing.InsertedAt, listing.Id)
			if err := tx.Delete(dateKey); err != nil {
				return err
			}

			// Delete from city index
			cityKey := makeListingCityKey(listing.Location, listing.Id)
			if err := tx.Delete(cityKey); err != nil {
				return err
			}

			// Delete primary record
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetListing retrieves a single listing by ID.
func (r *ListingRepository) GetListing(ctx context.Context, id core.ID) (*core.Listing, error) {
	var result *core.Listing
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeListingKey(id)
		var err error
		result, err = r.readListing(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetListings retrieves multiple listings by their IDs.
func (r *ListingRepository) GetListings(ctx context.Context, ids ...core.ID) ([]*core.Listing, error) {
	var result []*core.Listing
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeListingKey(id)
			listing, err := r.readListing(tx, key)
			if err != nil {
				return err
			}
			if listing != nil {
				result = append(result, listing)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetListingsByCity retrieves listings located in the given city.
func (r *ListingRepository) GetListingsByCity(ctx context.Context, city string) ([]*core.Listing, error) {
	var results []*core.Listing
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialListingCityKey(city)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			// Check if key still has our city prefix
			if len(key) < len(startKey) {
				break
			}
			if slices.Compare(key[:len(startKey)], startKey) != 0 {
				break
			}

			// Read the ID from the index
			var listingID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				listingID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			// Look up the full listing
			listing, err := r.readListing(tx, makeListingKey(listingID))
			if err != nil {
				return err
			}
			if listing != nil {
				results = append(results, listing)
			}
		}
		return nil
	}, false)

	return results, err
}

// GetListingsByDateRange retrieves listings inserted within a time range.
func (r *ListingRepository) GetListingsByDateRange(ctx context.Context, start, end time.Time) ([]*core.Listing, error) {
	if start.Equal(end) {
		end = start.Add(1 * time.Microsecond)
	}

	var results []*core.Listing
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialListingDateKey(start)
		endKey := makePartialListingDateKey(end)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if slices.Compare(key, endKey) > 0 {
				break
			}

			// Read the ID from the index
			var listingID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				listingID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			// Look up the full listing
			listing, err := r.readListing(tx, makeListingKey(listingID))
			if err != nil {
				return err
			}
			if listing != nil {
				results = append(results, listing)
			}
		}
		return nil
	}, false)

	return results, err
}

// GetRecentListings retrieves the N most recently inserted listings, newest first.
func (r *ListingRepository) GetRecentListings(ctx context.Context, limit int) ([]*core.Listing, error) {
	var results []*core.Listing
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Use reverse iterator to get most recent listings first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek to the last possible key in the date index
		startKey := makePartialListingDateKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))

		// Prefix for listing date index keys
		prefix := []byte(listingDatePrefix + ":")

		count := 0
		for iter.Seek(startKey); iter.Valid() && count < limit; iter.Next() {
			key := iter.Item().Key()

			// Check if we're still in the date index
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			// Read the ID from the index
			var listingID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				listingID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			// Look up the full listing
			listing, err := r.readListing(tx, makeListingKey(listingID))
			if err != nil {
				return err
			}
			if listing != nil {
				results = append(results, listing)
				count++
			}
		}
		return nil
	}, false)

	return results, err
}

// readListing reads a listing from the transaction.
func (r *ListingRepository) readListing(tx *badger.Txn, key []byte) (*core.Listing, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var listing *core.Listing
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		listing, unmarshalErr = storage.UnmarshalListing(val)
		return unmarshalErr
	})
	return listing, err
}
