package search

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"librarian/internal/bookmarks"
	"librarian/internal/index"
	index_mocks "librarian/internal/index/mocks"
	"librarian/internal/service"
	storage_mocks "librarian/internal/storage/mocks"
)

type staticSource struct {
	nodes []bookmarks.Node
	err   error
}

func (s staticSource) Tree(context.Context) ([]bookmarks.Node, error) {
	return s.nodes, s.err
}

var testTree = []bookmarks.Node{{
	Title: "Bookmarks bar",
	Children: []bookmarks.Node{
		{Title: "The Go Blog", URL: "https://go.dev/blog"},
	},
}}

func TestNewSearcher_Defaults(t *testing.T) {
	s := NewSearcher(staticSource{}, nil, nil, 0, 0)
	if s.threshold != DefaultScoreThreshold {
		t.Errorf("threshold = %v, want %v", s.threshold, DefaultScoreThreshold)
	}
	if s.pageSize != index.DefaultPageSize {
		t.Errorf("pageSize = %v, want %v", s.pageSize, index.DefaultPageSize)
	}
}

func TestSearcher_Search(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := index_mocks.NewMockBackend(ctrl)
	ledger := storage_mocks.NewMockChunkLedger(ctrl)

	backend.EXPECT().
		Search(gomock.Any(), index.SearchParams{Query: "generics", ScoreThreshold: 0.05, PageSize: 100}).
		Return([]index.Hit{
			{Score: 0.02, Metadata: []index.ChunkMetadata{{Link: "https://weak.example", ChunkHTML: "<b>generics</b>"}}},
			{Score: 0.8, Metadata: []index.ChunkMetadata{{Link: "https://go.dev/blog", ChunkHTML: "about <b>generics</b> in Go"}}},
		}, nil)
	ledger.EXPECT().Count(gomock.Any()).Return(42, nil)

	s := NewSearcher(staticSource{nodes: testTree}, backend, ledger, 0.05, 100)
	resp, err := s.Search(context.Background(), "  generics ")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if resp.DBCount != 42 {
		t.Errorf("DBCount = %d, want 42", resp.DBCount)
	}
	if len(resp.Result) != 1 {
		t.Fatalf("Result = %+v, want 1 result", resp.Result)
	}
	want := Document{URL: "https://go.dev/blog", Title: "The Go Blog", FlavorHTML: "generics"}
	if resp.Result[0].Document != want {
		t.Errorf("Document = %+v, want %+v", resp.Result[0].Document, want)
	}
}

func TestSearcher_Search_EmptyQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := index_mocks.NewMockBackend(ctrl)

	s := NewSearcher(staticSource{}, backend, nil, 0, 0)
	_, err := s.Search(context.Background(), "   ")
	if !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("Search() error = %v, want ErrInvalidInput", err)
	}
}

func TestSearcher_Search_BackendError(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := index_mocks.NewMockBackend(ctrl)
	cause := errors.New("status 503")

	backend.EXPECT().Name().Return("remote").AnyTimes()
	backend.EXPECT().Search(gomock.Any(), gomock.Any()).Return(nil, cause)

	s := NewSearcher(staticSource{}, backend, nil, 0, 0)
	_, err := s.Search(context.Background(), "q")
	if !errors.Is(err, service.ErrExternalService) {
		t.Errorf("Search() error = %v, want ErrExternalService", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("Search() error = %v, should keep cause", err)
	}
}

func TestSearcher_Search_DegradesWithoutBookmarksOrLedger(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := index_mocks.NewMockBackend(ctrl)
	ledger := storage_mocks.NewMockChunkLedger(ctrl)

	backend.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]index.Hit{
		{Score: 0.5, Metadata: []index.ChunkMetadata{{Link: "https://go.dev/blog", ChunkHTML: "plain"}}},
	}, nil)
	ledger.EXPECT().Count(gomock.Any()).Return(0, errors.New("locked"))

	s := NewSearcher(staticSource{err: errors.New("missing file")}, backend, ledger, 0, 0)
	resp, err := s.Search(context.Background(), "go")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if resp.DBCount != 0 {
		t.Errorf("DBCount = %d, want 0", resp.DBCount)
	}
	if got := resp.Result[0].Document; got.Title != "https://go.dev/blog" || got.FlavorHTML != "" {
		t.Errorf("Document = %+v, want link title and empty flavor", got)
	}
}
