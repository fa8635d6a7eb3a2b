// Package mongo implements the document-database backend.
//
// Collections follow the original schema-on-read layout: transactions hold
// the full record shape, categories and tags are plain {name} documents.
// Legacy documents may lack the type field or carry a malformed tags value;
// both are tolerated at decode time rather than rejected.
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"financas/internal/core"
)

const (
	collTransactions = "transactions"
	collCategories   = "categories"
	collTags         = "tags"
)

// BuildURI assembles the connection string from the externally supplied
// credentials, escaping username and password.
func BuildURI(username, password, cluster string) string {
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority",
		url.QueryEscape(username), url.QueryEscape(password), cluster)
}

// Repository is an explicitly constructed client handle, created once at
// process start and injected into each component. No implicit singletons.
type Repository struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewRepository(ctx context.Context, uri, database string) (*Repository, error) {
	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(cctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(cctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &Repository{
		client: client,
		db:     client.Database(database),
	}, nil
}

func (r *Repository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongodb: %w", err)
	}
	return nil
}

// transactionDoc is the wire shape of one transaction document. Type and
// Tags are decoded leniently: a missing type is coerced later, a tags value
// that is not an array of strings collapses to nil.
type transactionDoc struct {
	Date             time.Time   `bson:"date"`
	Description      string      `bson:"description"`
	Category         string      `bson:"category"`
	AmountCents      int64       `bson:"amount"`
	Type             string      `bson:"type,omitempty"`
	PaymentMethod    string      `bson:"payment_method"`
	InstallmentIndex int         `bson:"installment_index"`
	InstallmentCount int         `bson:"installment_count"`
	GroupID          string      `bson:"group_id"`
	Tags             interface{} `bson:"tags,omitempty"`
	CreatedAt        time.Time   `bson:"created_at"`
}

func toDoc(t core.Transaction) transactionDoc {
	var tags interface{}
	if t.Tags != nil {
		tags = t.Tags
	}
	return transactionDoc{
		Date:             t.Date.UTC(),
		Description:      t.Description,
		Category:         t.Category,
		AmountCents:      t.Amount.Cents,
		Type:             string(t.Type),
		PaymentMethod:    t.PaymentMethod,
		InstallmentIndex: t.InstallmentIndex,
		InstallmentCount: t.InstallmentCount,
		GroupID:          t.GroupID,
		Tags:             tags,
		CreatedAt:        t.CreatedAt.UTC(),
	}
}

func fromDoc(d transactionDoc) core.Transaction {
	return core.Transaction{
		Date:             d.Date,
		Description:      d.Description,
		Category:         d.Category,
		Amount:           core.Money{Cents: d.AmountCents},
		Type:             core.TransactionType(d.Type).Coerced(),
		PaymentMethod:    d.PaymentMethod,
		InstallmentIndex: d.InstallmentIndex,
		InstallmentCount: d.InstallmentCount,
		GroupID:          d.GroupID,
		Tags:             decodeTags(d.Tags),
		CreatedAt:        d.CreatedAt,
	}
}

// decodeTags accepts only a sequence of strings; anything else (missing
// field, scalar, mixed array) yields nil so tag-filtered views exclude the
// record instead of erroring.
func decodeTags(v interface{}) []string {
	arr, ok := v.(bson.A)
	if !ok {
		return nil
	}
	tags := make([]string, 0, len(arr))
	for _, item := range arr {
		s, ok := item.(string)
		if !ok {
			return nil
		}
		tags = append(tags, s)
	}
	return tags
}

// InsertGroup persists one installment group as a single ordered InsertMany.
// One write attempt per submission; the error surfaces verbatim.
func (r *Repository) InsertGroup(ctx context.Context, records []core.Transaction) error {
	docs := make([]interface{}, len(records))
	for i, t := range records {
		docs[i] = toDoc(t)
	}
	if _, err := r.db.Collection(collTransactions).InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return fmt.Errorf("insert %d transactions: %w", len(docs), err)
	}

	slog.InfoContext(ctx, "Transaction group saved to MongoDB",
		"group_id", records[0].GroupID,
		"count", len(records))
	return nil
}

func (r *Repository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	cur, err := r.db.Collection(collTransactions).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}
	defer cur.Close(ctx)

	var out []core.Transaction
	for cur.Next(ctx) {
		var d transactionDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode transaction: %w", err)
		}
		out = append(out, fromDoc(d))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]string, error) {
	return r.listNames(ctx, collCategories)
}

func (r *Repository) ListTags(ctx context.Context) ([]string, error) {
	return r.listNames(ctx, collTags)
}

func (r *Repository) listNames(ctx context.Context, coll string) ([]string, error) {
	cur, err := r.db.Collection(coll).Find(ctx, bson.D{},
		options.Find().SetProjection(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 0}}))
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", coll, err)
	}
	defer cur.Close(ctx)

	var names []string
	for cur.Next(ctx) {
		var doc struct {
			Name string `bson:"name"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", coll, err)
		}
		names = append(names, doc.Name)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", coll, err)
	}
	return names, nil
}

func (r *Repository) AddCategory(ctx context.Context, name string) error {
	return r.addName(ctx, collCategories, name)
}

func (r *Repository) AddTag(ctx context.Context, name string) error {
	return r.addName(ctx, collTags, name)
}

// addName inserts {name} unless present. The filter-upsert keeps the
// find-then-insert race from creating duplicates.
func (r *Repository) addName(ctx context.Context, coll, name string) error {
	filter := bson.D{{Key: "name", Value: name}}
	update := bson.D{{Key: "$setOnInsert", Value: bson.D{{Key: "name", Value: name}}}}
	if _, err := r.db.Collection(coll).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("upsert %s %q: %w", coll, name, err)
	}
	return nil
}
