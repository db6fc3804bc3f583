package services

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"

	"github.com/boboboiiiw/backend-edutrack/internal/auth"
	"github.com/boboboiiiw/backend-edutrack/internal/cache"
	"github.com/boboboiiiw/backend-edutrack/internal/events"
	"github.com/boboboiiiw/backend-edutrack/internal/models"
	"github.com/boboboiiiw/backend-edutrack/internal/testutil"
)

func TestPostService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.seedUser(t, "Alice", "alice@student.itera.ac.id", models.RoleMahasiswa)
	dosen := f.seedUser(t, "Pak Dosen", "dosen@itera.ac.id", models.RoleDosen)
	svc := f.posts()

	t.Run("mahasiswa with references", func(t *testing.T) {
		got, err := svc.Create(ctx, identityOf(alice), &CreatePostRequest{
			Title:      "Belajar Go",
			Content:    "Goroutine dan channel",
			References: []string{"https://go.dev", " ", "https://go.dev", "https://gorm.io"},
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if got.Author != "Alice" || got.AuthorID != alice.ID {
			t.Errorf("author = %s (%d)", got.Author, got.AuthorID)
		}
		if len(got.References) != 2 {
			t.Errorf("references = %v, want 2 unique", got.References)
		}
		if got.Likes != 0 || got.Dislikes != 0 || len(got.RecommendedBy) != 0 {
			t.Errorf("new post has activity: %+v", got)
		}
	})

	t.Run("reused reference url", func(t *testing.T) {
		if _, err := svc.Create(ctx, identityOf(alice), &CreatePostRequest{
			Title:      "Lagi",
			Content:    "Masih Go",
			References: []string{"https://go.dev"},
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		var count int64
		f.db.Model(&models.URL{}).Where("url = ?", "https://go.dev").Count(&count)
		if count != 1 {
			t.Errorf("url rows = %d, want 1", count)
		}
	})

	t.Run("dosen forbidden", func(t *testing.T) {
		_, err := svc.Create(ctx, identityOf(dosen), &CreatePostRequest{Title: "x", Content: "y"})
		assertKind(t, err, ErrForbidden, "Hanya mahasiswa yang diizinkan membuat post.")
	})

	t.Run("blank content", func(t *testing.T) {
		_, err := svc.Create(ctx, identityOf(alice), &CreatePostRequest{Title: "x", Content: "  "})
		assertKind(t, err, ErrValidationFailed, "Judul dan konten harus diisi.")
	})
}

func TestPostService_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.seedUser(t, "Alice", "alice@student.itera.ac.id", models.RoleMahasiswa)
	bob := f.seedUser(t, "Bob", "bob@student.itera.ac.id", models.RoleMahasiswa)
	for i := 0; i < 3; i++ {
		testutil.SeedPost(t, f.db, alice.ID, "alice post", 0, 0)
	}
	testutil.SeedPost(t, f.db, bob.ID, "bob post", 0, 0)
	svc := f.posts()

	tests := []struct {
		name        string
		caller      auth.Identity
		query       ListPostsQuery
		wantPosts   int
		wantTotal   int64
		wantPage    int
		wantPerPage int
		wantNext    bool
	}{
		{"defaults", identityOf(bob), ListPostsQuery{}, 4, 4, 1, 10, false},
		{"second page", identityOf(bob), ListPostsQuery{Page: 2, PerPage: 3}, 1, 4, 2, 3, false},
		{"first page has next", identityOf(bob), ListPostsQuery{Page: 1, PerPage: 3}, 3, 4, 1, 3, true},
		{"oversized per page falls back", identityOf(bob), ListPostsQuery{Page: -1, PerPage: 500}, 4, 4, 1, 10, false},
		{"author self", identityOf(alice), ListPostsQuery{AuthorSelf: true}, 3, 3, 1, 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.List(ctx, tt.caller, tt.query)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			p := got.Pagination
			if len(got.Posts) != tt.wantPosts || p.TotalPosts != tt.wantTotal {
				t.Errorf("posts = %d total = %d, want %d / %d", len(got.Posts), p.TotalPosts, tt.wantPosts, tt.wantTotal)
			}
			if p.CurrentPage != tt.wantPage || p.PerPage != tt.wantPerPage || p.HasNext != tt.wantNext {
				t.Errorf("pagination = %+v", p)
			}
		})
	}

	_, err := svc.List(ctx, auth.Identity{}, ListPostsQuery{AuthorSelf: true})
	assertKind(t, err, ErrUnauthorized, "")
}

func TestPostService_GetCachedAndInvalidated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	f.cache = cache.NewCacheManager(client)

	alice := f.seedUser(t, "Alice", "alice@student.itera.ac.id", models.RoleMahasiswa)
	dosen := f.seedUser(t, "Pak Dosen", "dosen@itera.ac.id", models.RoleDosen)
	post := testutil.SeedPost(t, f.db, alice.ID, "Belajar Go", 5, 2)
	posts := f.posts()

	got, err := posts.Get(ctx, identityOf(dosen), post.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Likes != 5 || got.RecommendedByCurrentUser == nil || *got.RecommendedByCurrentUser {
		t.Fatalf("Get() = %+v", got)
	}
	if !mr.Exists("post:" + cache.PostViewKey(post.ID)) {
		t.Fatal("post view was not cached")
	}

	if _, err := f.interactions().Like(ctx, identityOf(alice), post.ID); err != nil {
		t.Fatalf("Like() error = %v", err)
	}
	if mr.Exists("post:" + cache.PostViewKey(post.ID)) {
		t.Error("like did not invalidate the cached view")
	}
	if _, err := posts.Recommend(ctx, identityOf(dosen), post.ID); err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	got, err = posts.Get(ctx, identityOf(dosen), post.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Likes != 6 || !*got.RecommendedByCurrentUser || len(got.RecommendedBy) != 1 {
		t.Errorf("Get() after changes = %+v", got)
	}

	other, err := posts.Get(ctx, identityOf(alice), post.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if *other.RecommendedByCurrentUser {
		t.Error("recommendation flag leaked to another user through the cache")
	}

	_, err = posts.Get(ctx, identityOf(alice), 999)
	assertKind(t, err, ErrNotFound, "Post tidak ditemukan.")
}

func TestPostService_RecommendIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.seedUser(t, "Alice", "alice@student.itera.ac.id", models.RoleMahasiswa)
	dosen := f.seedUser(t, "Pak Dosen", "dosen@itera.ac.id", models.RoleDosen)
	post := testutil.SeedPost(t, f.db, alice.ID, "Belajar Go", 0, 0)
	svc := f.posts()

	first, err := svc.Recommend(ctx, identityOf(dosen), post.ID)
	if err != nil {
		t.Fatalf("first Recommend() error = %v", err)
	}
	if first.Message != "Post berhasil direkomendasikan." || !first.Changed {
		t.Errorf("first Recommend() = %+v", first)
	}

	second, err := svc.Recommend(ctx, identityOf(dosen), post.ID)
	if err != nil {
		t.Fatalf("second Recommend() error = %v", err)
	}
	if second.Message != "Anda sudah merekomendasikan post ini." || second.Changed {
		t.Errorf("second Recommend() = %+v", second)
	}
	if len(second.RecommendedBy) != 1 || second.RecommendedBy[0] != dosen.ID {
		t.Errorf("recommended_by = %v", second.RecommendedBy)
	}

	var rows int64
	f.db.Model(&models.PostRecommendation{}).Where("post_id = ?", post.ID).Count(&rows)
	if rows != 1 {
		t.Errorf("recommendation rows = %d, want 1", rows)
	}

	published := f.publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.EventPostRecommendationChanged {
		t.Errorf("events = %+v, want one recommendation change", published)
	}

	removed, err := svc.Unrecommend(ctx, identityOf(dosen), post.ID)
	if err != nil {
		t.Fatalf("Unrecommend() error = %v", err)
	}
	if removed.Message != "Rekomendasi berhasil dibatalkan." || len(removed.RecommendedBy) != 0 {
		t.Errorf("Unrecommend() = %+v", removed)
	}

	again, err := svc.Unrecommend(ctx, identityOf(dosen), post.ID)
	if err != nil {
		t.Fatalf("second Unrecommend() error = %v", err)
	}
	if again.Message != "Anda belum merekomendasikan post ini." || again.Changed {
		t.Errorf("second Unrecommend() = %+v", again)
	}
}

func TestPostService_RecommendErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.seedUser(t, "Alice", "alice@student.itera.ac.id", models.RoleMahasiswa)
	dosen := f.seedUser(t, "Pak Dosen", "dosen@itera.ac.id", models.RoleDosen)
	post := testutil.SeedPost(t, f.db, alice.ID, "Belajar Go", 0, 0)
	svc := f.posts()

	_, err := svc.Recommend(ctx, identityOf(alice), post.ID)
	assertKind(t, err, ErrForbidden, "Hanya dosen yang dapat merekomendasikan.")

	_, err = svc.Unrecommend(ctx, identityOf(alice), post.ID)
	assertKind(t, err, ErrForbidden, "Hanya dosen yang dapat membatalkan rekomendasi.")

	_, err = svc.Recommend(ctx, identityOf(dosen), 999)
	assertKind(t, err, ErrNotFound, "Post tidak ditemukan.")

	anonymous := auth.Identity{Role: models.RoleDosen}
	_, err = svc.Recommend(ctx, anonymous, post.ID)
	assertKind(t, err, ErrUnauthorized, "Autentikasi diperlukan.")

	_, err = svc.Unrecommend(ctx, anonymous, post.ID)
	assertKind(t, err, ErrUnauthorized, "Autentikasi diperlukan.")
}

func TestExportService_ExportPosts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.seedUser(t, "Alice", "alice@student.itera.ac.id", models.RoleMahasiswa)
	dosen := f.seedUser(t, "Pak Dosen", "dosen@itera.ac.id", models.RoleDosen)
	first := testutil.SeedPost(t, f.db, alice.ID, "Pertama", 3, 1)
	testutil.SeedPost(t, f.db, alice.ID, "Kedua", 0, 0)
	if _, err := f.posts().Recommend(ctx, identityOf(dosen), first.ID); err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	svc := NewExportService(f.repo, f.logger)

	_, err := svc.ExportPosts(ctx, identityOf(alice))
	assertKind(t, err, ErrForbidden, "")

	buf, err := svc.ExportPosts(ctx, identityOf(dosen))
	if err != nil {
		t.Fatalf("ExportPosts() error = %v", err)
	}

	book, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer book.Close()

	rows, err := book.GetRows(exportSheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if strings.Join(rows[0][:3], ",") != "ID,Judul,Penulis" {
		t.Errorf("header = %v", rows[0])
	}

	var found bool
	for _, row := range rows[1:] {
		if row[1] == "Pertama" {
			found = true
			if row[2] != "Alice" || row[3] != "3" || row[4] != "1" || row[5] != "1" {
				t.Errorf("row = %v", row)
			}
		}
	}
	if !found {
		t.Error("post Pertama missing from export")
	}
}
