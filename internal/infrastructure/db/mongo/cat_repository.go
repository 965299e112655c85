package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/catregistry/cat-api/internal/core/domain"
	"github.com/catregistry/cat-api/internal/core/ports"
)

const (
	collectionCats = "cats"
	ownerDocField  = "owner_doc"
)

// CatRepository implements ports.CatRepository using MongoDB.
type CatRepository struct {
	col *mongo.Collection
}

func NewCatRepository(db *mongo.Database) *CatRepository {
	return &CatRepository{col: db.Collection(collectionCats)}
}

// geoPoint is a GeoJSON Point. Coordinates are [lon, lat].
type geoPoint struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

func toGeoPoint(l domain.Location) geoPoint {
	return geoPoint{Type: "Point", Coordinates: []float64{l.Lon, l.Lat}}
}

func (p geoPoint) toLocation() domain.Location {
	if len(p.Coordinates) != 2 {
		return domain.Location{}
	}
	return domain.Location{Lat: p.Coordinates[1], Lon: p.Coordinates[0]}
}

type catDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"cat_name"`
	Weight    float64            `bson:"weight"`
	Filename  string             `bson:"filename,omitempty"`
	Birthdate *time.Time         `bson:"birthdate,omitempty"`
	Location  geoPoint           `bson:"location"`
	Owner     primitive.ObjectID `bson:"owner"`

	// Populated by the $lookup stage only.
	OwnerDoc []userDocument `bson:"owner_doc,omitempty"`
}

func (d catDocument) toDomain() *domain.Cat {
	cat := &domain.Cat{
		ID:       d.ID.Hex(),
		Name:     d.Name,
		Weight:   d.Weight,
		Filename: d.Filename,
		Location: d.Location.toLocation(),
		OwnerID:  d.Owner.Hex(),
	}
	if d.Birthdate != nil {
		cat.Birthdate = d.Birthdate.UTC()
	}
	if len(d.OwnerDoc) > 0 {
		owner := d.OwnerDoc[0].toDomain()
		owner.Role, owner.PasswordHash = "", ""
		cat.Owner = owner
	}
	return cat
}

// Create inserts a new cat document.
func (r *CatRepository) Create(ctx context.Context, cat *domain.Cat) (*domain.Cat, error) {
	owner, err := primitive.ObjectIDFromHex(cat.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("insert cat: invalid owner id %q", cat.OwnerID)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := catDocument{
		Name:     cat.Name,
		Weight:   cat.Weight,
		Filename: cat.Filename,
		Location: toGeoPoint(cat.Location),
		Owner:    owner,
	}
	if !cat.Birthdate.IsZero() {
		b := cat.Birthdate.UTC()
		doc.Birthdate = &b
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert cat: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

// FindByID returns a cat with its owner expanded.
func (r *CatRepository) FindByID(ctx context.Context, id string) (*domain.Cat, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCatNotFound
	}

	cats, err := r.aggregateWithOwner(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, err
	}
	if len(cats) == 0 {
		return nil, domain.ErrCatNotFound
	}
	return cats[0], nil
}

func (r *CatRepository) Exists(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count cat: %w", err)
	}
	return n > 0, nil
}

// List returns the cats matching filter.
func (r *CatRepository) List(ctx context.Context, filter ports.CatFilter) ([]*domain.Cat, error) {
	query, err := buildCatQuery(filter)
	if err != nil {
		return nil, err
	}
	if filter.PopulateOwner {
		return r.aggregateWithOwner(ctx, query)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list cats: %w", err)
	}
	return decodeCats(ctx, cur)
}

// buildCatQuery translates a CatFilter into a Mongo filter document. $box
// treats points on the box edges as inside.
func buildCatQuery(filter ports.CatFilter) (bson.M, error) {
	query := bson.M{}
	if filter.OwnerID != "" {
		owner, err := primitive.ObjectIDFromHex(filter.OwnerID)
		if err != nil {
			return nil, fmt.Errorf("list cats: invalid owner id %q", filter.OwnerID)
		}
		query["owner"] = owner
	}
	if filter.Area != nil {
		bl, tr := filter.Area.BottomLeft, filter.Area.TopRight
		query["location"] = bson.M{
			"$geoWithin": bson.M{
				"$box": bson.A{
					bson.A{bl.Lon, bl.Lat},
					bson.A{tr.Lon, tr.Lat},
				},
			},
		}
	}
	return query, nil
}

// aggregateWithOwner runs match → $lookup(users) and strips the owner's
// password and role.
func (r *CatRepository) aggregateWithOwner(ctx context.Context, match bson.M) ([]*domain.Cat, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionUsers},
			{Key: "localField", Value: "owner"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: ownerDocField},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: ownerDocField + ".password", Value: 0},
			{Key: ownerDocField + ".role", Value: 0},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate cats: %w", err)
	}
	return decodeCats(ctx, cur)
}

func decodeCats(ctx context.Context, cur *mongo.Cursor) ([]*domain.Cat, error) {
	var docs []catDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode cats: %w", err)
	}
	cats := make([]*domain.Cat, len(docs))
	for i, d := range docs {
		cats[i] = d.toDomain()
	}
	return cats, nil
}

// ownedFilter matches the cat by id and, when ownerID is non-empty, by owner
// as well, so the ownership check and the write happen in one operation.
func ownedFilter(id, ownerID string) (bson.M, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	filter := bson.M{"_id": oid}
	if ownerID != "" {
		owner, err := primitive.ObjectIDFromHex(ownerID)
		if err != nil {
			return nil, false
		}
		filter["owner"] = owner
	}
	return filter, true
}

func catSetFields(p domain.CatPatch) (bson.M, error) {
	set := bson.M{}
	if p.Name != nil {
		set["cat_name"] = *p.Name
	}
	if p.Weight != nil {
		set["weight"] = *p.Weight
	}
	if p.Filename != nil {
		set["filename"] = *p.Filename
	}
	if p.Birthdate != nil {
		set["birthdate"] = p.Birthdate.UTC()
	}
	if p.Location != nil {
		set["location"] = toGeoPoint(*p.Location)
	}
	if p.OwnerID != nil {
		owner, err := primitive.ObjectIDFromHex(*p.OwnerID)
		if err != nil {
			return nil, fmt.Errorf("update cat: invalid owner id %q", *p.OwnerID)
		}
		set["owner"] = owner
	}
	return set, nil
}

// Update applies patch atomically, conditioned on ownerID when given.
func (r *CatRepository) Update(ctx context.Context, id, ownerID string, patch domain.CatPatch) (*domain.Cat, error) {
	filter, ok := ownedFilter(id, ownerID)
	if !ok {
		return nil, domain.ErrCatNotFound
	}
	set, err := catSetFields(patch)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var res *mongo.SingleResult
	if len(set) == 0 {
		res = r.col.FindOne(ctx, filter)
	} else {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		res = r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts)
	}

	var doc catDocument
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCatNotFound
		}
		return nil, fmt.Errorf("update cat: %w", err)
	}
	return doc.toDomain(), nil
}

// Delete removes the cat atomically, conditioned on ownerID when given.
func (r *CatRepository) Delete(ctx context.Context, id, ownerID string) (*domain.Cat, error) {
	filter, ok := ownedFilter(id, ownerID)
	if !ok {
		return nil, domain.ErrCatNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc catDocument
	if err := r.col.FindOneAndDelete(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCatNotFound
		}
		return nil, fmt.Errorf("delete cat: %w", err)
	}
	return doc.toDomain(), nil
}

// DeleteByOwner removes every cat owned by ownerID.
func (r *CatRepository) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete cats: invalid owner id %q", ownerID)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"owner": owner})
	if err != nil {
		return 0, fmt.Errorf("delete cats: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the geospatial and owner indexes on the cats collection.
func (r *CatRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "owner", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
