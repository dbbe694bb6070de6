package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/matzipcloud/matzip/internal/db"
)

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestContainsIgnoreCase(t *testing.T) {
	tests := []struct {
		s, sub string
		want   bool
	}{
		{"Index Already Exists", "index already exists", true},
		{"UNKNOWN INDEX NAME", "unknown index name", true},
		{"hello world", "world", true},
		{"short", "longer than input", false},
		{"exact", "exact", true},
		{"", "", true},
		{"notempty", "", true},
	}
	for _, tc := range tests {
		got := containsIgnoreCase(tc.s, tc.sub)
		if got != tc.want {
			t.Errorf("containsIgnoreCase(%q, %q) = %v, want %v", tc.s, tc.sub, got, tc.want)
		}
	}
}

// --- kv.go tests ---

func TestGet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "mykey")).
		Return(mock.Result(mock.RedisBlobString("value")))

	s := NewStoreForTest(c)
	data, err := s.Get(context.Background(), "mykey")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "value" {
		t.Errorf("unexpected data: %s", data)
	}
}

func TestGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "mykey")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	_, err := s.Get(context.Background(), "mykey")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestGet_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "mykey")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	_, err := s.Get(context.Background(), "mykey")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, db.ErrKeyNotFound) {
		t.Error("should not be ErrKeyNotFound for network errors")
	}
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %T", err)
	}
}

func TestSet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "mykey", "myvalue")).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.Set(context.Background(), "mykey", []byte("myvalue")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetWithTTL_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "SET" && cmd[1] == "mykey" && cmd[2] == "myvalue"
		})).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.SetWithTTL(context.Background(), "mykey", []byte("myvalue"), 60*1e9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// --- index.go tests ---

func TestCreateIndex_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	idx := &db.IndexDefinition{
		Name:        "matzip:venues",
		StorageType: db.StorageHash,
		Prefixes:    []string{"matzip:venue:"},
		Fields: []db.IndexField{
			{Name: "name", Type: db.IndexFieldText, TextWeight: 3},
		},
	}
	if err := s.CreateIndex(context.Background(), idx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateIndex_AlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.Result(mock.RedisError("Index already exists")))

	s := NewStoreForTest(c)
	idx := &db.IndexDefinition{
		Name:   "matzip:venues",
		Fields: []db.IndexField{{Name: "category", Type: db.IndexFieldTag}},
	}
	err := s.CreateIndex(context.Background(), idx)
	if !errors.Is(err, db.ErrIndexExists) {
		t.Errorf("expected ErrIndexExists, got %v", err)
	}
}

func TestCreateIndex_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	idx := &db.IndexDefinition{
		Name:   "matzip:venues",
		Fields: []db.IndexField{{Name: "category", Type: db.IndexFieldTag}},
	}
	err := s.CreateIndex(context.Background(), idx)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestDropIndex_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.DROPINDEX", "matzip:venues")).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.DropIndex(context.Background(), "matzip:venues"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDropIndex_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.DROPINDEX", "matzip:venues")).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	s := NewStoreForTest(c)
	err := s.DropIndex(context.Background(), "matzip:venues")
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestIndexExists_True(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", "matzip:venues")).
		Return(mock.Result(mock.RedisArray(mock.RedisString("index_name"), mock.RedisString("matzip:venues"))))

	s := NewStoreForTest(c)
	exists, err := s.IndexExists(context.Background(), "matzip:venues")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("expected true")
	}
}

func TestIndexExists_False(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", "matzip:venues")).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	s := NewStoreForTest(c)
	exists, err := s.IndexExists(context.Background(), "matzip:venues")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Error("expected false")
	}
}

func TestSupportsTextSearch(t *testing.T) {
	s := &Store{}
	if !s.SupportsTextSearch(context.Background()) {
		t.Error("Redis store should support text search")
	}
}

func TestBuildCreateArgs_Validation(t *testing.T) {
	_, err := buildCreateArgs(&db.IndexDefinition{Name: "", Fields: []db.IndexField{{Name: "f", Type: db.IndexFieldTag}}})
	if err == nil {
		t.Error("expected error for empty name")
	}

	_, err = buildCreateArgs(&db.IndexDefinition{Name: "test"})
	if err == nil {
		t.Error("expected error for empty fields")
	}
}

func TestBuildFieldArgs_AllTypes(t *testing.T) {
	tests := []struct {
		name  string
		field db.IndexField
		want  string
	}{
		{"tag", db.IndexField{Name: "f", Type: db.IndexFieldTag}, "TAG"},
		{"numeric", db.IndexField{Name: "f", Type: db.IndexFieldNumeric}, "NUMERIC"},
		{"text", db.IndexField{Name: "f", Type: db.IndexFieldText}, "TEXT"},
		{"tag_with_separator", db.IndexField{Name: "f", Type: db.IndexFieldTag, TagSeparator: ","}, "TAG"},
		{"tag_case_sensitive", db.IndexField{Name: "f", Type: db.IndexFieldTag, TagCaseSensitive: true}, "TAG"},
		{"vector_flat", db.IndexField{
			Name: "f", Type: db.IndexFieldVector,
			VectorDim: 128, VectorAlgo: db.VectorFlat,
		}, "VECTOR"},
		{"vector_hnsw", db.IndexField{
			Name: "f", Type: db.IndexFieldVector,
			VectorDim: 256, VectorAlgo: db.VectorHNSW,
			VectorM: 16, VectorEFConstruct: 200,
		}, "VECTOR"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			args, err := buildFieldArgs(&tc.field)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertContains(t, args, tc.want)
		})
	}
}

func TestBuildFieldArgs_TextWeight(t *testing.T) {
	args, err := buildFieldArgs(&db.IndexField{Name: "name", Type: db.IndexFieldText, TextWeight: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hasWeight := false
	for i, a := range args {
		if a == "WEIGHT" && i+1 < len(args) && args[i+1] == "3" {
			hasWeight = true
			break
		}
	}
	if !hasWeight {
		t.Errorf("expected WEIGHT 3 in args %v", args)
	}
}

func TestBuildFieldArgs_Alias(t *testing.T) {
	args, err := buildFieldArgs(&db.IndexField{Name: "$.field", Alias: "field", Type: db.IndexFieldTag})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hasAlias := false
	for i, a := range args {
		if a == "AS" && i+1 < len(args) && args[i+1] == "field" {
			hasAlias = true
			break
		}
	}
	if !hasAlias {
		t.Errorf("expected AS alias in args %v", args)
	}
}

func TestBuildFieldArgs_Errors(t *testing.T) {
	_, err := buildFieldArgs(&db.IndexField{Name: "", Type: db.IndexFieldTag})
	if err == nil {
		t.Error("expected error for empty field name")
	}

	_, err = buildFieldArgs(&db.IndexField{Name: "f", Type: db.IndexFieldType(99)})
	if err == nil {
		t.Error("expected error for unknown type")
	}

	_, err = buildFieldArgs(&db.IndexField{Name: "f", Type: db.IndexFieldVector, VectorDim: 0})
	if err == nil {
		t.Error("expected error for zero vector dim")
	}
}

func assertContains(t *testing.T, args []string, want string) {
	t.Helper()
	for _, a := range args {
		if a == want {
			return
		}
	}
	t.Errorf("expected %q in args %v", want, args)
}

// --- search.go tests ---

func TestSearchKNN_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1), // total
			mock.RedisString("matzip:venue:v1"),
			mock.RedisArray(
				mock.RedisString("__embedding_score"),
				mock.RedisString("0.1"),
				mock.RedisString("name"),
				mock.RedisString("Mapo Sundubu"),
			),
		)))

	s := NewStoreForTest(c)
	result, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName: "matzip:venues",
		Vector:    []float32{0.1, 0.2},
		K:         10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("expected total 1, got %d", result.Total)
	}
	if len(result.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(result.Entries))
	}
	if result.Entries[0].Key != "matzip:venue:v1" {
		t.Errorf("expected key matzip:venue:v1, got %s", result.Entries[0].Key)
	}
	// cosine distance 0.1 maps to similarity 0.9
	if result.Entries[0].Score < 0.89 || result.Entries[0].Score > 0.91 {
		t.Errorf("expected score ~0.9, got %f", result.Entries[0].Score)
	}
	if result.Entries[0].Fields["name"] != "Mapo Sundubu" {
		t.Errorf("unexpected fields: %v", result.Entries[0].Fields)
	}
}

func TestSearchKNN_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	result, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName: "matzip:venues",
		Vector:    []float32{0.1},
		K:         10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Entries) != 0 {
		t.Errorf("expected 0 entries, got %d", len(result.Entries))
	}
}

func TestSearchKNN_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	_, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName: "matzip:venues",
		Vector:    []float32{0.1},
		K:         10,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %T", err)
	}
}

func TestSearchKNN_Validation(t *testing.T) {
	s := &Store{}
	ctx := context.Background()

	_, err := s.SearchKNN(ctx, &db.KNNQuery{Vector: []float32{0.1}, K: 10})
	if err == nil {
		t.Error("expected error for empty index name")
	}

	_, err = s.SearchKNN(ctx, &db.KNNQuery{IndexName: "idx", K: 10})
	if err == nil {
		t.Error("expected error for empty vector")
	}

	_, err = s.SearchKNN(ctx, &db.KNNQuery{IndexName: "idx", Vector: []float32{0.1}, K: 0})
	if err == nil {
		t.Error("expected error for k=0")
	}
}

func TestSearchBM25_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1),
			mock.RedisString("matzip:venue:v1"),
			mock.RedisString("0.85"),
			mock.RedisArray(
				mock.RedisString("name"),
				mock.RedisString("Mapo Sundubu"),
			),
		)))

	s := NewStoreForTest(c)
	result, err := s.SearchBM25(context.Background(), &db.TextQuery{
		IndexName: "matzip:venues",
		Query:     "sundubu",
		TopK:      10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("expected total 1, got %d", result.Total)
	}
	if result.Entries[0].Score < 0.84 || result.Entries[0].Score > 0.86 {
		t.Errorf("expected score ~0.85, got %f", result.Entries[0].Score)
	}
}

func TestSearchBM25_Validation(t *testing.T) {
	s := &Store{}
	ctx := context.Background()

	_, err := s.SearchBM25(ctx, &db.TextQuery{Query: "test", TopK: 10})
	if err == nil {
		t.Error("expected error for empty index name")
	}

	_, err = s.SearchBM25(ctx, &db.TextQuery{IndexName: "idx", TopK: 10})
	if err == nil {
		t.Error("expected error for empty query")
	}

	_, err = s.SearchBM25(ctx, &db.TextQuery{IndexName: "idx", Query: "test", TopK: 0})
	if err == nil {
		t.Error("expected error for topK=0")
	}
}

func TestBuildTextQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single_term", "sundubu", "sundubu"},
		{"multi_term", "spicy sundubu jjigae", "spicy | sundubu | jjigae"},
		{"special_chars", `pasta @home`, `pasta | \@home`},
		{"whitespace_only", "   ", "*"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := buildTextQuery(tc.input)
			if got != tc.want {
				t.Errorf("buildTextQuery(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestVectorToBytes(t *testing.T) {
	v := []float32{1.0, 2.0}
	b := vectorToBytes(v)
	if len(b) != 8 {
		t.Fatalf("expected 8 bytes, got %d", len(b))
	}
}

// --- helpers ---

// isDBError is a test helper for checking wrapped db.Error.
func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}
