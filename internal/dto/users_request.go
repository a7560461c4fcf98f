package dto

type UpdateProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=30"`
	FullName *string `json:"full_name" binding:"omitempty,max=100"`
	Bio      *string `json:"bio" binding:"omitempty,max=500"`
}
