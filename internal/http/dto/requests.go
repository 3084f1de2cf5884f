package dto

// PathRequest carries a single media path.
type PathRequest struct {
	Path string `json:"path"`
}

func (r *PathRequest) Validate() []ValidationError {
	return validatePath("path", r.Path)
}

type BookmarkRequest struct {
	Dir  string `json:"dir"`
	Name string `json:"name"`
}

func (r *BookmarkRequest) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, validatePath("dir", r.Dir)...)
	errs = append(errs, validateRequired("name", r.Name)...)
	return errs
}

type PlaylistRequest struct {
	Name string `json:"name"`
}

func (r *PlaylistRequest) Validate() []ValidationError {
	return validateRequired("name", r.Name)
}

type ReorderRequest struct {
	Paths []string `json:"paths"`
}

func (r *ReorderRequest) Validate() []ValidationError {
	var errs []ValidationError
	for _, p := range r.Paths {
		errs = append(errs, validatePath("paths", p)...)
	}
	return errs
}

type SortRequest struct {
	Sort string `json:"sort"`
}

func (r *SortRequest) Validate() []ValidationError {
	errs := validateRequired("sort", r.Sort)
	return append(errs, ValidateSortKey(r.Sort)...)
}

type PlaybackStartRequest struct {
	Path   string `json:"path"`
	Action string `json:"action"`
}

func (r *PlaybackStartRequest) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, validatePath("path", r.Path)...)
	errs = append(errs, validateResumeAction(r.Action)...)
	return errs
}

// ProgressRequest positions are in seconds.
type ProgressRequest struct {
	Position float64 `json:"position"`
	Length   float64 `json:"length"`
}

func (r *ProgressRequest) Validate() []ValidationError {
	var errs []ValidationError
	if r.Position < 0 {
		errs = append(errs, ValidationError{Field: "position", Message: "cannot be negative"})
	}
	if r.Length < 0 {
		errs = append(errs, ValidationError{Field: "length", Message: "cannot be negative"})
	}
	return errs
}

type StopRequest struct {
	EOF bool `json:"eof"`
}

type ProfileRequest struct {
	Name        string `json:"profile_name"`
	DisplayName string `json:"display_name"`
	Pin         string `json:"pin"`
}

func (r *ProfileRequest) Validate() []ValidationError {
	return validateRequired("profile_name", r.Name)
}

type SwitchProfileRequest struct {
	Name string `json:"profile_name"`
	Pin  string `json:"pin"`
}

func (r *SwitchProfileRequest) Validate() []ValidationError {
	return validateRequired("profile_name", r.Name)
}
