package dto

// UpdateProfileRequest carries the editable profile fields. Nil fields are
// left unchanged.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,max=120"`
	Username *string `json:"username" binding:"omitempty,max=40"`
	Bio      *string `json:"bio" binding:"omitempty,max=500"`
	Website  *string `json:"website" binding:"omitempty,max=200"`
	Location *string `json:"location" binding:"omitempty,max=120"`
}

// Fields returns the set fields keyed by column name
func (r *UpdateProfileRequest) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if r.FullName != nil {
		fields["full_name"] = *r.FullName
	}
	if r.Username != nil {
		fields["username"] = *r.Username
	}
	if r.Bio != nil {
		fields["bio"] = *r.Bio
	}
	if r.Website != nil {
		fields["website"] = *r.Website
	}
	if r.Location != nil {
		fields["location"] = *r.Location
	}
	return fields
}
