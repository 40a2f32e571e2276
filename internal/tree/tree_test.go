// ABOUTME: Tests for the folder tree projection.
// ABOUTME: Verifies root/folder partitioning, ordering, orphans, and live recompute.

package tree

import (
	"testing"
	"time"

	"github.com/harper/mdesk/internal/docdb"
	"github.com/harper/mdesk/internal/models"
	"github.com/harper/mdesk/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(id int64, title string, folder *int64) *models.Document {
	return &models.Document{ID: id, Title: title, Content: "a b", FolderID: folder, Created: time.UnixMilli(1), Modified: time.UnixMilli(1)}
}

func ptr(v int64) *int64 { return &v }

func TestBuildPartitions(t *testing.T) {
	folders := []*models.Folder{{ID: 2, Name: "Work"}, {ID: 1, Name: "Home"}}
	docs := []*models.Document{
		doc(1, "a", nil),
		doc(2, "b", ptr(1)),
		doc(3, "c", ptr(2)),
		doc(4, "d", nil),
		doc(5, "e", ptr(2)),
		doc(6, "f", ptr(9)),
	}

	tr := Build(docs, folders)

	require.Len(t, tr.Root, 2)
	assert.Equal(t, []int64{1, 4}, []int64{tr.Root[0].ID, tr.Root[1].ID})

	require.Len(t, tr.Folders, 2)
	assert.Equal(t, "Work", tr.Folders[0].Name, "folders keep engine order")
	assert.Equal(t, []int64{3, 5}, []int64{tr.Folders[0].Documents[0].ID, tr.Folders[0].Documents[1].ID})
	require.Len(t, tr.Folders[1].Documents, 1)
	assert.Equal(t, int64(2), tr.Folders[1].Documents[0].ID)

	require.Len(t, tr.Orphans, 1)
	assert.Equal(t, int64(6), tr.Orphans[0].ID)
	assert.Equal(t, 6, tr.DocumentCount())
	assert.Equal(t, 2, tr.Root[0].WordCount)
}

func TestBuildEmpty(t *testing.T) {
	tr := Build(nil, nil)
	assert.Empty(t, tr.Root)
	assert.Empty(t, tr.Folders)
	assert.Equal(t, 0, tr.DocumentCount())
}

func TestEmptyFolderStillListed(t *testing.T) {
	tr := Build(nil, []*models.Folder{{ID: 1, Name: "Empty"}})
	require.Len(t, tr.Folders, 1)
	assert.NotNil(t, tr.Folders[0].Documents)
	assert.Empty(t, tr.Folders[0].Documents)
}

func TestWatchRecomputesOnEveryMutation(t *testing.T) {
	db := docdb.New(docdb.NewKVRepository(store.NewMemory()))
	require.NoError(t, db.Init())

	var views []Tree
	cancel := Watch(db, func(tr Tree) { views = append(views, tr) })
	defer cancel()

	f, err := db.CreateFolder("Work")
	require.NoError(t, err)
	d, err := db.CreateDocument("Notes", "")
	require.NoError(t, err)
	_, err = db.MoveDocument(d.ID, &f.ID)
	require.NoError(t, err)
	_, err = db.DeleteFolder(f.ID)
	require.NoError(t, err)

	require.Len(t, views, 4)
	assert.Len(t, views[1].Root, 1)
	assert.Empty(t, views[2].Root)
	assert.Len(t, views[2].Folders[0].Documents, 1)
	assert.Empty(t, views[3].Folders)
	assert.Equal(t, 0, views[3].DocumentCount())
}
