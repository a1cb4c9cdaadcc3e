package repository

import (
	"cmp"
	"fmt"
	"slices"

	"projecthub/internal/apperr"
	"projecthub/internal/model"
	"projecthub/pkg/metrics"

	"go.uber.org/zap"
)

// CommentRepository stores task comments. Reading and posting are gated by the
// owner of the task's project; editing and deleting are gated by the author.
// The two gates are independent: a project owner cannot delete
// someone else's comment, and an author who does not own the project cannot
// list the thread.
type CommentRepository struct {
	s      *Store
	logger *zap.Logger

	comments map[int]*model.Comment
	nextID   int
}

func newCommentRepository(s *Store, logger *zap.Logger) *CommentRepository {
	return &CommentRepository{
		s:        s,
		logger:   logger,
		comments: make(map[int]*model.Comment),
		nextID:   1,
	}
}

// readableLocked checks the project-owner gate for a task's thread.
func (r *CommentRepository) readableLocked(taskID, callerID int) error {
	t, ok := r.s.Tasks.tasks[taskID]
	if !ok {
		return apperr.NotFound("Task not found")
	}
	if _, ok := r.s.Projects.ownedLocked(t.ProjectID, callerID); !ok {
		return apperr.Forbidden("Permission denied")
	}
	return nil
}

// authoredLocked checks the author gate for a single comment.
func (r *CommentRepository) authoredLocked(commentID, callerID int) (*model.Comment, error) {
	c, ok := r.comments[commentID]
	if !ok {
		return nil, apperr.NotFound("Comment not found")
	}
	if c.UserID != callerID {
		return nil, apperr.Forbidden("Permission denied")
	}
	return c, nil
}

// ListForTask returns a task's comments ordered by id.
func (r *CommentRepository) ListForTask(taskID, callerID int) ([]model.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if err := r.readableLocked(taskID, callerID); err != nil {
		return nil, err
	}

	out := []model.Comment{}
	for _, c := range r.comments {
		if c.TaskID == taskID {
			out = append(out, *c)
		}
	}
	slices.SortFunc(out, func(a, b model.Comment) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

// Create posts a comment authored by callerID.
func (r *CommentRepository) Create(taskID, callerID int, content string) (*model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.readableLocked(taskID, callerID); err != nil {
		return nil, err
	}
	if content == "" {
		return nil, apperr.InvalidInput("Empty comment not allowed")
	}

	c := &model.Comment{
		ID:        r.nextID,
		TaskID:    taskID,
		UserID:    callerID,
		Content:   content,
		Timestamp: r.s.now(),
	}
	r.nextID++
	r.comments[c.ID] = c

	r.s.Notifications.appendLocked(fmt.Sprintf("New comment added to task %d", taskID))
	metrics.RecordMutation("comment", "create")

	r.logger.Info("Comment created",
		zap.Int("comment_id", c.ID),
		zap.Int("task_id", taskID),
		zap.Int("user_id", callerID),
	)
	out := *c
	return &out, nil
}

// Update replaces a comment's content. Only its author may do so.
func (r *CommentRepository) Update(commentID, callerID int, content string) (*model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, err := r.authoredLocked(commentID, callerID)
	if err != nil {
		return nil, err
	}
	if content == "" {
		return nil, apperr.InvalidInput("Empty comment not allowed")
	}
	c.Content = content

	r.s.Notifications.appendLocked(fmt.Sprintf("Comment ID %d updated", commentID))
	metrics.RecordMutation("comment", "update")

	r.logger.Info("Comment updated", zap.Int("comment_id", commentID))
	out := *c
	return &out, nil
}

// Delete removes a comment. Only its author may do so.
func (r *CommentRepository) Delete(commentID, callerID int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, err := r.authoredLocked(commentID, callerID); err != nil {
		return err
	}
	delete(r.comments, commentID)

	r.s.Notifications.appendLocked(fmt.Sprintf("Comment ID %d deleted", commentID))
	metrics.RecordMutation("comment", "delete")

	r.logger.Info("Comment deleted", zap.Int("comment_id", commentID))
	return nil
}
