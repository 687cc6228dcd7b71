// Package dashboard is the state machine behind the blog admin page: the
// post list, the create/edit form and the notifications shown after each
// action.
package dashboard

import (
	"context"
	"errors"
	"sync"

	"shiftsite/internal/models"
	"shiftsite/internal/service"
)

const DefaultAuthor = "Marketing Team"

// ErrBusy is returned when an action starts while another round trip is
// still in flight.
var ErrBusy = errors.New("dashboard: another request is in progress")

const (
	msgLoadFailed    = "Failed to load blog posts"
	msgSaveFailed    = "Failed to save blog post"
	msgDeleteFailed  = "Failed to delete blog post"
	msgToggleFailed  = "Failed to update post status"
	msgSignOutFailed = "Failed to sign out"
)

type Form struct {
	Title     string
	Excerpt   string
	Content   string
	Author    string
	Published bool
}

func DefaultForm() Form {
	return Form{Author: DefaultAuthor, Published: true}
}

func formFromPost(post *models.BlogPost) Form {
	return Form{
		Title:     post.Title,
		Excerpt:   post.Excerpt,
		Content:   post.Content,
		Author:    post.Author,
		Published: post.Published,
	}
}

// State is a snapshot of the page. EditingPost nil means the form creates.
type State struct {
	Loading     bool
	Submitting  bool
	ShowForm    bool
	EditingPost *models.BlogPost
	Form        Form
	Posts       []models.BlogPost
}

type Dashboard struct {
	blog   service.BlogService
	auth   service.AuthService
	notify Notifier

	mu    sync.Mutex
	busy  bool
	state State
}

func New(blog service.BlogService, auth service.AuthService, notify Notifier) *Dashboard {
	if notify == nil {
		notify = discard{}
	}

	return &Dashboard{
		blog:   blog,
		auth:   auth,
		notify: notify,
		state: State{
			Loading: true,
			Form:    DefaultForm(),
			Posts:   []models.BlogPost{},
		},
	}
}

// State returns a copy that is safe to render while actions run.
func (d *Dashboard) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := d.state
	s.Posts = append([]models.BlogPost(nil), d.state.Posts...)
	if d.state.EditingPost != nil {
		post := *d.state.EditingPost
		s.EditingPost = &post
	}
	return s
}

// Mount is the first load of the page.
func (d *Dashboard) Mount(ctx context.Context) error {
	return d.LoadPosts(ctx)
}

func (d *Dashboard) LoadPosts(ctx context.Context) error {
	if err := d.begin(); err != nil {
		return err
	}
	defer d.end()

	return d.loadPosts(ctx)
}

func (d *Dashboard) loadPosts(ctx context.Context) error {
	d.mu.Lock()
	d.state.Loading = true
	d.mu.Unlock()

	posts, err := d.blog.GetAllPosts(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Loading = false

	if err != nil {
		d.notify.Notify(failure(msgLoadFailed))
		return err
	}

	d.state.Posts = posts
	return nil
}

// OpenCreate shows the form. An edit in progress is kept, like the
// "New Post" button does.
func (d *Dashboard) OpenCreate() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.state.ShowForm = true
}

func (d *Dashboard) Edit(post models.BlogPost) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.state.EditingPost = &post
	d.state.Form = formFromPost(&post)
	d.state.ShowForm = true
}

// EditByID opens the form for a post from the loaded list.
func (d *Dashboard) EditByID(id string) error {
	d.mu.Lock()
	var found *models.BlogPost
	for i := range d.state.Posts {
		if d.state.Posts[i].ID == id {
			post := d.state.Posts[i]
			found = &post
			break
		}
	}
	d.mu.Unlock()

	if found == nil {
		return models.NotFoundError("post " + id + " not found")
	}

	d.Edit(*found)
	return nil
}

func (d *Dashboard) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.resetForm()
}

// SetForm replaces the form fields. Inputs are locked while submitting.
func (d *Dashboard) SetForm(form Form) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state.Submitting {
		return ErrBusy
	}
	d.state.Form = form
	return nil
}

// Submit creates or updates depending on EditingPost, reloads the list and
// resets the form. On failure the form keeps its contents.
func (d *Dashboard) Submit(ctx context.Context) error {
	if err := d.begin(); err != nil {
		return err
	}
	defer d.end()

	d.mu.Lock()
	d.state.Submitting = true
	form := d.state.Form
	editing := d.state.EditingPost
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.state.Submitting = false
		d.mu.Unlock()
	}()

	var (
		err     error
		success Notification
	)
	if editing != nil {
		_, err = d.blog.UpdatePost(ctx, editing.ID, models.BlogPostUpdate{
			Title:     &form.Title,
			Excerpt:   &form.Excerpt,
			Content:   &form.Content,
			Author:    &form.Author,
			Published: &form.Published,
		})
		success = Notification{Title: "Post Updated", Description: "Blog post has been updated successfully"}
	} else {
		_, err = d.blog.CreatePost(ctx, models.BlogPostDraft{
			Title:     form.Title,
			Excerpt:   form.Excerpt,
			Content:   form.Content,
			Author:    form.Author,
			Published: form.Published,
		})
		success = Notification{Title: "Post Created", Description: "New blog post has been created successfully"}
	}
	if err != nil {
		d.notify.Notify(failure(msgSaveFailed))
		return err
	}

	d.notify.Notify(success)
	if editing != nil {
		d.mu.Lock()
		d.state.EditingPost = nil
		d.mu.Unlock()
	}

	_ = d.loadPosts(ctx)

	d.mu.Lock()
	d.resetForm()
	d.mu.Unlock()

	return nil
}

// Delete does nothing unless the user confirmed.
func (d *Dashboard) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return nil
	}

	if err := d.begin(); err != nil {
		return err
	}
	defer d.end()

	if err := d.blog.DeletePost(ctx, id); err != nil {
		d.notify.Notify(failure(msgDeleteFailed))
		return err
	}

	_ = d.loadPosts(ctx)
	d.notify.Notify(Notification{Title: "Post Deleted", Description: "Blog post has been deleted successfully"})

	return nil
}

// TogglePublished flips the flag from the value the row was rendered with.
func (d *Dashboard) TogglePublished(ctx context.Context, id string, current bool) error {
	if err := d.begin(); err != nil {
		return err
	}
	defer d.end()

	if _, err := d.blog.TogglePublished(ctx, id, !current); err != nil {
		d.notify.Notify(failure(msgToggleFailed))
		return err
	}

	_ = d.loadPosts(ctx)
	d.notify.Notify(Notification{Title: "Post Updated", Description: "Post visibility has been updated"})

	return nil
}

// SignOut ends the session. The caller navigates to "/" on success.
func (d *Dashboard) SignOut(ctx context.Context) error {
	if err := d.begin(); err != nil {
		return err
	}
	defer d.end()

	if err := d.auth.SignOut(ctx); err != nil {
		d.notify.Notify(failure(msgSignOutFailed))
		return err
	}

	return nil
}

func (d *Dashboard) begin() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.busy {
		return ErrBusy
	}
	d.busy = true
	return nil
}

func (d *Dashboard) end() {
	d.mu.Lock()
	d.busy = false
	d.mu.Unlock()
}

// resetForm expects d.mu to be held.
func (d *Dashboard) resetForm() {
	d.state.Form = DefaultForm()
	d.state.ShowForm = false
	d.state.EditingPost = nil
}
