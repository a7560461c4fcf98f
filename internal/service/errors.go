package service

import "errors"

// Kind classifies a failed operation so the transport layer can map it
// to a status code without inspecting messages.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindExternal     Kind = "external"
	KindInternal     Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf returns the error's classification, defaulting to internal
// for anything that escaped translation.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

var (
	ErrInternal = newError(KindInternal, "internal server error")

	ErrUserNotFound      = newError(KindNotFound, "user not found")
	ErrUsernameTaken     = newError(KindConflict, "username already taken")
	ErrCannotFollowSelf  = newError(KindValidation, "you cannot follow yourself")
	ErrAlreadyFollowing  = newError(KindConflict, "already following this user")
	ErrNotFollowing      = newError(KindConflict, "not following this user")
	ErrSearchQueryEmpty  = newError(KindValidation, "search query is required")
	ErrNoFileUploaded    = newError(KindValidation, "no file uploaded")
	ErrFileMustBeMedia   = newError(KindValidation, "only images and videos are allowed")
	ErrFileTooLarge      = newError(KindValidation, "file exceeds the size limit")
	ErrTooManyMediaFiles = newError(KindValidation, "too many media files")

	ErrPostNotFound      = newError(KindNotFound, "post not found")
	ErrPostEmpty         = newError(KindValidation, "post must have text, media, or links")
	ErrInvalidVisibility = newError(KindValidation, "invalid visibility")
	ErrInvalidLinks      = newError(KindValidation, "links must be valid JSON")
	ErrNotPostAuthor     = newError(KindForbidden, "not authorized to modify this post")
	ErrAlreadyLiked      = newError(KindConflict, "post already liked")
	ErrNotLiked          = newError(KindConflict, "post not liked yet")
	ErrCommentNotFound   = newError(KindNotFound, "comment not found")
	ErrCommentTextEmpty  = newError(KindValidation, "comment text is required")
	ErrNotCommentAuthor  = newError(KindForbidden, "not authorized to delete this comment")
	ErrMediaUploadFailed = newError(KindExternal, "failed to upload media to storage")
)
