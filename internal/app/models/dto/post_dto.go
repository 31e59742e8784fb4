package dto

// CreatePostRequest is the payload for creating a post. Content may be
// empty when images are attached.
type CreatePostRequest struct {
	Content string             `json:"content" binding:"omitempty,max=5000"`
	Images  []PostImageRequest `json:"images" binding:"omitempty,max=6,dive"`
}

// PostImageRequest is an already-uploaded image attached to a post.
type PostImageRequest struct {
	URL        string `json:"url" binding:"required,url"`
	StorageKey string `json:"storageKey" binding:"required"`
	Caption    string `json:"caption" binding:"omitempty,max=200"`
}

// CreateCommentRequest is the payload for commenting on a post.
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=1000"`
}

// SharePostRequest shares a post into a direct message thread.
type SharePostRequest struct {
	ReceiverID int64  `json:"receiverId" binding:"required,min=1"`
	Content    string `json:"content" binding:"omitempty,max=1000"`
}
