package did

import "fmt"

// ValidateCreate checks every field of a new record. Username is only ever checked here
// because it cannot change afterwards.
func ValidateCreate(args CreateArgs) *Error {
	if len(args.Username) == 0 {
		return validationFailed("username", "cannot be empty")
	}
	if len(args.Username) > MaxUsernameLength {
		return validationFailed("username", fmt.Sprintf("cannot exceed %d bytes", MaxUsernameLength))
	}
	for _, f := range []struct {
		name  string
		value string
	}{
		{"github", args.Github},
		{"twitter", args.Twitter},
		{"ipfs_hash", args.IpfsHash},
	} {
		if err := validateOptional(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

// ValidateUpdate checks the fields that are set. Unset fields are not looked at.
func ValidateUpdate(args UpdateArgs) *Error {
	for _, f := range []struct {
		name  string
		value Field
	}{
		{"github", args.Github},
		{"twitter", args.Twitter},
		{"ipfs_hash", args.IpfsHash},
	} {
		if v, ok := f.value.Get(); ok {
			if err := validateOptional(f.name, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateOptional(name, value string) *Error {
	if len(value) > MaxFieldLength {
		return validationFailed(name, fmt.Sprintf("cannot exceed %d bytes", MaxFieldLength))
	}
	return nil
}
