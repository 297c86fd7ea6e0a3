package records

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-unicms/internal/locale"
	"github.com/goliatone/go-unicms/internal/schema"
)

func newTestService(t *testing.T, opts ...ServiceOption) (Service, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	return NewService(store, schema.MustCatalogRegistry(), opts...), store
}

func seed(t *testing.T, store Store, records ...*Record) {
	t.Helper()
	for _, r := range records {
		if _, err := store.Save(context.Background(), r); err != nil {
			t.Fatalf("seed %s: %v", r.Key, err)
		}
	}
}

func orgUnit(key, name string, order int, parent *Record) *Record {
	r := &Record{
		ID:         uuid.NewSHA1(uuid.NameSpaceURL, []byte("org:"+key)),
		EntityType: schema.OrganizationStructure,
		Key:        key,
		IsActive:   true,
		Order:      order,
		Texts:      map[string]locale.Text{"name": {RU: name}},
		Codes:      map[string]string{"structure_type": "department"},
	}
	if parent != nil {
		id := parent.ID
		r.ParentID = &id
	}
	return r
}

func keysOf(nodes []*Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Record.Key)
	}
	return out
}

func TestListOrdersTiesBySecondaryKey(t *testing.T) {
	svc, store := newTestService(t)
	seed(t, store,
		orgUnit("b", "B", 1, nil),
		orgUnit("a", "A", 1, nil),
		orgUnit("z", "Z", 0, nil),
	)

	nodes, err := svc.List(context.Background(), ListRequest{EntityType: schema.OrganizationStructure})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got := keysOf(nodes); !reflect.DeepEqual(got, []string{"z", "a", "b"}) {
		t.Fatalf("unexpected order %v", got)
	}

	again, _ := svc.List(context.Background(), ListRequest{EntityType: schema.OrganizationStructure})
	if !reflect.DeepEqual(keysOf(again), keysOf(nodes)) {
		t.Fatal("expected identical order across calls")
	}
}

func TestListExcludesInactiveRecords(t *testing.T) {
	svc, store := newTestService(t)
	hidden := orgUnit("hidden", "Hidden", 0, nil)
	hidden.IsActive = false
	seed(t, store, orgUnit("shown", "Shown", 0, nil), hidden)

	nodes, err := svc.List(context.Background(), ListRequest{EntityType: "organization-structure"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got := keysOf(nodes); !reflect.DeepEqual(got, []string{"shown"}) {
		t.Fatalf("expected only the active record, got %v", got)
	}
}

func TestGetBuildsNestedHierarchy(t *testing.T) {
	svc, store := newTestService(t)
	p := orgUnit("p", "P", 0, nil)
	c1 := orgUnit("c1", "C1", 0, p)
	c2 := orgUnit("c2", "C2", 1, p)
	g1 := orgUnit("g1", "G1", 0, c1)
	inactive := orgUnit("gone", "Gone", 2, p)
	inactive.IsActive = false
	seed(t, store, g1, c2, p, c1, inactive)

	node, err := svc.Get(context.Background(), GetRequest{EntityType: schema.OrganizationStructure, ID: "p", IncludeChildren: true})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	children := node.Children["children"]
	if got := keysOf(children); !reflect.DeepEqual(got, []string{"c1", "c2"}) {
		t.Fatalf("unexpected children %v", got)
	}
	if got := keysOf(children[0].Children["children"]); !reflect.DeepEqual(got, []string{"g1"}) {
		t.Fatalf("unexpected grandchildren %v", got)
	}
	grand := children[0].Children["children"][0]
	if leaf, ok := grand.Children["children"]; !ok || len(leaf) != 0 {
		t.Fatalf("expected empty children on leaf, got %v", grand.Children)
	}
	if len(children[1].Children["children"]) != 0 {
		t.Fatal("expected c2 to have no children")
	}
	if node.Depth() != 3 {
		t.Fatalf("expected depth 3, got %d", node.Depth())
	}
}

func TestListHierarchyReturnsRoots(t *testing.T) {
	svc, store := newTestService(t)
	root := orgUnit("root", "Root", 0, nil)
	seed(t, store, root, orgUnit("leaf", "Leaf", 0, root))

	nodes, err := svc.List(context.Background(), ListRequest{EntityType: schema.OrganizationStructure})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got := keysOf(nodes); !reflect.DeepEqual(got, []string{"root"}) {
		t.Fatalf("expected roots only, got %v", got)
	}

	scoped, err := svc.List(context.Background(), ListRequest{EntityType: schema.OrganizationStructure, Parent: "root"})
	if err != nil {
		t.Fatalf("List scoped: %v", err)
	}
	if got := keysOf(scoped); !reflect.DeepEqual(got, []string{"leaf"}) {
		t.Fatalf("expected children of root, got %v", got)
	}

	searched, err := svc.List(context.Background(), ListRequest{EntityType: schema.OrganizationStructure, Search: "lea"})
	if err != nil {
		t.Fatalf("List search: %v", err)
	}
	if got := keysOf(searched); !reflect.DeepEqual(got, []string{"leaf"}) {
		t.Fatalf("expected search to cover every level, got %v", got)
	}
}

func TestListTerminatesOnStoredCycle(t *testing.T) {
	svc, store := newTestService(t)
	a := orgUnit("a", "A", 0, nil)
	b := orgUnit("b", "B", 0, a)
	a.ParentID = &b.ID
	seed(t, store, a, b)

	node, err := svc.Get(context.Background(), GetRequest{EntityType: schema.OrganizationStructure, ID: "a", IncludeChildren: true})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if node.Depth() != 2 {
		t.Fatalf("expected cycle to be cut after one level, got depth %d", node.Depth())
	}
}

func TestListSearchKeepsMatchedChildrenInSubtree(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	p := orgUnit("p", "Science faculty", 0, nil)
	c1 := orgUnit("c1", "Science lab", 0, p)
	c2 := orgUnit("c2", "Math", 1, p)
	seed(t, store, p, c1, c2)

	nodes, err := svc.List(ctx, ListRequest{EntityType: schema.OrganizationStructure, Search: "science", IncludeChildren: true})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got := keysOf(nodes); !reflect.DeepEqual(got, []string{"p", "c1"}) {
		t.Fatalf("expected both matches listed, got %v", got)
	}

	detail, err := svc.Get(ctx, GetRequest{EntityType: schema.OrganizationStructure, ID: "p", IncludeChildren: true})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	listed := keysOf(nodes[0].Children["children"])
	if want := keysOf(detail.Children["children"]); !reflect.DeepEqual(listed, want) || len(want) != 2 {
		t.Fatalf("listing children %v differ from detail children %v", listed, want)
	}
	if nodes[0].Depth() != detail.Depth() {
		t.Fatalf("expected listing depth %d to match detail depth %d", nodes[0].Depth(), detail.Depth())
	}
}

func TestListRespectsMaxDepth(t *testing.T) {
	svc, store := newTestService(t, WithMaxDepth(2))
	var prev *Record
	for _, key := range []string{"l0", "l1", "l2", "l3", "l4"} {
		r := orgUnit(key, key, 0, prev)
		seed(t, store, r)
		prev = r
	}

	nodes, err := svc.List(context.Background(), ListRequest{EntityType: schema.OrganizationStructure, IncludeChildren: true})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(nodes) != 1 || nodes[0].Depth() != 3 {
		t.Fatalf("expected bounded depth 3, got %d nodes", len(nodes))
	}
}

func collegeFixtures() (*Record, *Record, []*Record) {
	tab := &Record{
		ID: uuid.New(), EntityType: schema.CollegeTab, Key: "about", IsActive: true,
		Texts: map[string]locale.Text{"title": {RU: "О колледже", EN: "About"}},
	}
	closed := &Record{
		ID: uuid.New(), EntityType: schema.CollegeTab, Key: "archive", IsActive: false,
		Texts: map[string]locale.Text{"title": {RU: "Архив"}},
	}
	card := func(title string, order int, active bool) *Record {
		return &Record{
			ID: uuid.New(), EntityType: schema.CollegeCard, ParentID: &tab.ID, IsActive: active, Order: order,
			Texts: map[string]locale.Text{"title": {RU: title}, "description": {RU: title + " описание"}},
		}
	}
	return tab, closed, []*Record{card("Вторая", 2, true), card("Первая", 1, true), card("Скрытая", 0, false)}
}

func TestListRequiresParentFilter(t *testing.T) {
	svc, store := newTestService(t)
	tab, closed, cards := collegeFixtures()
	seed(t, store, append([]*Record{tab, closed}, cards...)...)
	ctx := context.Background()

	_, err := svc.List(ctx, ListRequest{EntityType: schema.CollegeCard})
	if !errors.Is(err, ErrMissingParentFilter) {
		t.Fatalf("expected ErrMissingParentFilter, got %v", err)
	}
	var missing *MissingParentFilterError
	if !errors.As(err, &missing) || missing.Param != "tab" {
		t.Fatalf("expected param tab, got %v", err)
	}

	for _, ref := range []string{"unknown", "archive"} {
		if _, err := svc.List(ctx, ListRequest{EntityType: schema.CollegeCard, Parent: ref}); !IsNotFound(err) {
			t.Fatalf("tab %q: expected not found, got %v", ref, err)
		}
	}

	nodes, err := svc.List(ctx, ListRequest{EntityType: schema.CollegeCard, Parent: "about"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(nodes) != 2 || nodes[0].Record.Text("title").RU != "Первая" {
		t.Fatalf("unexpected cards %v", keysOf(nodes))
	}

	byID, err := svc.List(ctx, ListRequest{EntityType: schema.CollegeCard, Parent: tab.ID.String()})
	if err != nil || len(byID) != 2 {
		t.Fatalf("expected lookup by id to work, got %d, %v", len(byID), err)
	}
}

func TestGetMissingOrInactiveIsNotFound(t *testing.T) {
	svc, store := newTestService(t)
	tab, closed, _ := collegeFixtures()
	seed(t, store, tab, closed)
	ctx := context.Background()

	cases := []GetRequest{
		{EntityType: schema.CollegeTab, ID: closed.ID.String()},
		{EntityType: schema.CollegeTab, ID: uuid.NewString()},
		{EntityType: schema.CollegeTab, ID: "missing"},
		{EntityType: schema.CollegeCard, ID: tab.ID.String()},
	}
	for _, req := range cases {
		_, err := svc.Get(ctx, req)
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("Get(%+v): expected NotFoundError, got %v", req, err)
		}
	}

	if _, err := svc.Get(ctx, GetRequest{EntityType: "news", ID: "x"}); !errors.Is(err, ErrUnknownEntity) {
		t.Fatalf("expected ErrUnknownEntity, got %v", err)
	}
}

func TestListSearchMatchesAnyLanguage(t *testing.T) {
	svc, store := newTestService(t)
	pub := func(title locale.Text, author locale.Text) *Record {
		return &Record{
			ID: uuid.New(), EntityType: schema.Publication, IsActive: true,
			Texts: map[string]locale.Text{"title": title, "author": author},
		}
	}
	seed(t, store,
		pub(locale.Text{RU: "Квантовая оптика"}, locale.Text{RU: "Иванов", EN: "Ivanov"}),
		pub(locale.Text{RU: "Гидрология", KG: "Гидрология"}, locale.Text{RU: "Петров"}),
	)

	nodes, err := svc.List(context.Background(), ListRequest{EntityType: schema.Publication, Search: "IVANOV"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(nodes) != 1 || nodes[0].Record.Text("title").RU != "Квантовая оптика" {
		t.Fatalf("unexpected search result %d", len(nodes))
	}
}

func TestListSearchCoversHeadNotDescription(t *testing.T) {
	svc, store := newTestService(t)
	unit := orgUnit("rectorate", "Ректорат", 0, nil)
	unit.Texts["head"] = locale.Text{RU: "Ректор", EN: "Rector Sultanov"}
	unit.Texts["description"] = locale.Text{RU: "Стратегия университета"}
	seed(t, store, unit)

	byHead, err := svc.List(context.Background(), ListRequest{EntityType: schema.OrganizationStructure, Search: "sultanov"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got := keysOf(byHead); !reflect.DeepEqual(got, []string{"rectorate"}) {
		t.Fatalf("expected head search to match, got %v", got)
	}
	byDescription, err := svc.List(context.Background(), ListRequest{EntityType: schema.OrganizationStructure, Search: "стратегия"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(byDescription) != 0 {
		t.Fatalf("expected description to stay out of search, got %v", keysOf(byDescription))
	}
}

func TestListDatedEntitiesAndTypeFilter(t *testing.T) {
	svc, store := newTestService(t)
	day := func(d int) *time.Time {
		v := time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
		return &v
	}
	doc := func(key, kind string, date *time.Time, order int) *Record {
		return &Record{
			ID: uuid.New(), EntityType: schema.Document, Key: key, IsActive: true, Order: order, Date: date,
			Texts: map[string]locale.Text{"title": {RU: key}},
			Codes: map[string]string{"document_type": kind},
		}
	}
	seed(t, store,
		doc("undated", "order", nil, 0),
		doc("old", "order", day(1), 0),
		doc("new-b", "order", day(5), 1),
		doc("new-a", "order", day(5), 1),
		doc("new-first", "charter", day(5), 0),
	)

	nodes, err := svc.List(context.Background(), ListRequest{EntityType: schema.Document})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"new-first", "new-a", "new-b", "old", "undated"}
	if got := keysOf(nodes); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected order %v, want %v", got, want)
	}

	charters, err := svc.List(context.Background(), ListRequest{EntityType: schema.Document, Type: "charter"})
	if err != nil {
		t.Fatalf("List type: %v", err)
	}
	if got := keysOf(charters); !reflect.DeepEqual(got, []string{"new-first"}) {
		t.Fatalf("unexpected type filter result %v", got)
	}
}

type failingStore struct {
	*MemoryStore
	err error
}

func (f failingStore) Find(context.Context, Query) ([]*Record, error) { return nil, f.err }

func TestListPropagatesStorageErrors(t *testing.T) {
	boom := errors.New("connection refused")
	svc := NewService(failingStore{MemoryStore: NewMemoryStore(), err: boom}, schema.MustCatalogRegistry())

	_, err := svc.List(context.Background(), ListRequest{EntityType: schema.Document})
	if !errors.Is(err, boom) {
		t.Fatalf("expected storage error to propagate, got %v", err)
	}
}
