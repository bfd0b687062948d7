package branchvers

import (
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"github.com/go-git/go-git/v5/storage/memory"
)

var testSignature = &object.Signature{
	Name:  "test",
	Email: "test@example.com",
	When:  time.Now(),
}

// testRepoCreate creates a new in-memory git repository for testing
func testRepoCreate() (*git.Repository, error) {
	storage := memory.NewStorage()
	fs := memfs.New()
	return git.Init(storage, fs)
}

// testRepoFSCreate creates a new filesystem-based git repository for testing
func testRepoFSCreate(path string) (*git.Repository, error) {
	fs := osfs.New(path)
	storage := filesystem.NewStorage(fs, nil)
	return git.Init(storage, fs)
}

// testRepoSingleCommit adds a single commit to the repository and returns the commit hash
func testRepoSingleCommit(repo *git.Repository) (plumbing.Hash, error) {
	workTree, err := repo.Worktree()
	if err != nil {
		return plumbing.ZeroHash, err
	}

	err = writeFile(workTree.Filesystem, "test.txt", "Hello world")
	if err != nil {
		return plumbing.ZeroHash, err
	}

	_, err = workTree.Add("test.txt")
	if err != nil {
		return plumbing.ZeroHash, err
	}

	return workTree.Commit("Initial commit", &git.CommitOptions{Author: testSignature})
}

// testRepoCheckoutBranch creates branch at HEAD and points HEAD at it
func testRepoCheckoutBranch(repo *git.Repository, branch string) error {
	workTree, err := repo.Worktree()
	if err != nil {
		return err
	}

	return workTree.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: true,
	})
}

// testRepoDetached commits once, replaces master with the given refs and
// detaches HEAD at the commit
func testRepoDetached(repo *git.Repository, refs ...plumbing.ReferenceName) (plumbing.Hash, error) {
	hash, err := testRepoSingleCommit(repo)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	if err := repo.Storer.RemoveReference(plumbing.Master); err != nil {
		return plumbing.ZeroHash, err
	}

	for _, name := range refs {
		if err := repo.Storer.SetReference(plumbing.NewHashReference(name, hash)); err != nil {
			return plumbing.ZeroHash, err
		}
	}

	err = repo.Storer.SetReference(plumbing.NewHashReference(plumbing.HEAD, hash))
	return hash, err
}

// writeFile writes content to a file in the given filesystem
func writeFile(fs billy.Filesystem, filename, content string) error {
	file, err := fs.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.Write([]byte(content))
	return err
}
