package profile

/*
Profile collects candidate identity values of the device owner or of a signed-in user.
Each field keeps every non-empty candidate in discovery order and remembers the value
that was marked primary, if any.
*/
type Profile struct {
	primaryEmail       string
	primaryName        string
	primaryPhoneNumber string

	emails       []string
	names        []string
	phoneNumbers []string

	photo string
}

// Summary is the flattened best-value view of a Profile
type Summary struct {
	Email       string `json:"email,omitempty" yaml:"email,omitempty"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty" yaml:"phone_number,omitempty"`
	PhotoPath   string `json:"photo_path,omitempty" yaml:"photo_path,omitempty"`
}

func New() *Profile {
	return &Profile{}
}

/*
AddEmail adds a possible email address. A primary address replaces any earlier primary one
*/
func (profile *Profile) AddEmail(email string, isPrimary bool) {
	if email == "" {
		return
	}
	if isPrimary {
		profile.primaryEmail = email
	}
	profile.emails = append(profile.emails, email)
}

func (profile *Profile) AddName(name string) {
	if name == "" {
		return
	}
	profile.names = append(profile.names, name)
}

/*
AddPhoneNumber adds a possible phone number. A primary number replaces any earlier primary one
*/
func (profile *Profile) AddPhoneNumber(phoneNumber string, isPrimary bool) {
	if phoneNumber == "" {
		return
	}
	if isPrimary {
		profile.primaryPhoneNumber = phoneNumber
	}
	profile.phoneNumbers = append(profile.phoneNumbers, phoneNumber)
}

// SetPhoto keeps the last non-empty photo reference
func (profile *Profile) SetPhoto(reference string) {
	if reference == "" {
		return
	}
	profile.photo = reference
}

func (profile *Profile) BestEmail() (string, bool) {
	return best(profile.primaryEmail, profile.emails)
}

func (profile *Profile) BestName() (string, bool) {
	return best(profile.primaryName, profile.names)
}

func (profile *Profile) BestPhoneNumber() (string, bool) {
	return best(profile.primaryPhoneNumber, profile.phoneNumbers)
}

func (profile *Profile) BestPhotoPath() (string, bool) {
	return profile.photo, profile.photo != ""
}

func (profile *Profile) Emails() []string {
	return append([]string(nil), profile.emails...)
}

func (profile *Profile) Names() []string {
	return append([]string(nil), profile.names...)
}

func (profile *Profile) PhoneNumbers() []string {
	return append([]string(nil), profile.phoneNumbers...)
}

// IsEmpty reports whether no candidate of any field was recorded
func (profile *Profile) IsEmpty() bool {
	return len(profile.emails) == 0 && len(profile.names) == 0 &&
		len(profile.phoneNumbers) == 0 && profile.photo == ""
}

func (profile *Profile) Summary() Summary {
	var s Summary
	s.Email, _ = profile.BestEmail()
	s.Name, _ = profile.BestName()
	s.PhoneNumber, _ = profile.BestPhoneNumber()
	s.PhotoPath, _ = profile.BestPhotoPath()
	return s
}

// Primary value if set, otherwise the first candidate
func best(primary string, candidates []string) (string, bool) {
	if primary != "" {
		return primary, true
	}
	if len(candidates) > 0 {
		return candidates[0], true
	}
	return "", false
}
