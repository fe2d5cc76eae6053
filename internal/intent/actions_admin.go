// internal/intent/actions_admin.go
package intent

import "github.com/agoradao/agora-go/internal/ledger"

const (
	moduleOracle  = "oracle_actions"
	modulePackage = "package_actions"
	moduleCouncil = "council_actions"
)

// GrantOracleAccess lets Grantee read the named price feed.
type GrantOracleAccess struct {
	Grantee ledger.Address
	FeedID  ledger.ObjectID
}

func (GrantOracleAccess) Kind() Kind { return KindGrantOracleAccess }

func (a GrantOracleAccess) validate() error {
	if a.Grantee == zeroAddress {
		return missing(KindGrantOracleAccess, "Grantee")
	}
	if a.FeedID == zeroObjectID {
		return missing(KindGrantOracleAccess, "FeedID")
	}
	return nil
}

func (a GrantOracleAccess) call() (callSpec, error) {
	return callSpec{
		module: moduleOracle,
		name:   "grant_oracle_access",
		args: []ledger.CallArg{
			ledger.PureAddress(a.Grantee),
			ledger.PureObjectID(a.FeedID),
		},
	}, nil
}

// RevokeOracleAccess revokes a prior grant.
type RevokeOracleAccess struct {
	Grantee ledger.Address
	FeedID  ledger.ObjectID
}

func (RevokeOracleAccess) Kind() Kind { return KindRevokeOracleAccess }

func (a RevokeOracleAccess) validate() error {
	if a.Grantee == zeroAddress {
		return missing(KindRevokeOracleAccess, "Grantee")
	}
	if a.FeedID == zeroObjectID {
		return missing(KindRevokeOracleAccess, "FeedID")
	}
	return nil
}

func (a RevokeOracleAccess) call() (callSpec, error) {
	return callSpec{
		module: moduleOracle,
		name:   "revoke_oracle_access",
		args: []ledger.CallArg{
			ledger.PureAddress(a.Grantee),
			ledger.PureObjectID(a.FeedID),
		},
	}, nil
}

// RegisterPackage records a code package under the DAO's registry.
type RegisterPackage struct {
	Name    string
	Package ledger.ObjectID
}

func (RegisterPackage) Kind() Kind { return KindRegisterPackage }

func (a RegisterPackage) validate() error {
	if a.Name == "" {
		return missing(KindRegisterPackage, "Name")
	}
	if a.Package == zeroObjectID {
		return missing(KindRegisterPackage, "Package")
	}
	return nil
}

func (a RegisterPackage) call() (callSpec, error) {
	return callSpec{
		module: modulePackage,
		name:   "register_package",
		args: []ledger.CallArg{
			ledger.PureString(a.Name),
			ledger.PureObjectID(a.Package),
		},
	}, nil
}

// UpgradePackage authorizes an upgrade to the code digest.
type UpgradePackage struct {
	Name   string
	Digest []byte
}

func (UpgradePackage) Kind() Kind { return KindUpgradePackage }

func (a UpgradePackage) validate() error {
	if a.Name == "" {
		return missing(KindUpgradePackage, "Name")
	}
	if len(a.Digest) != 32 {
		return invalid(KindUpgradePackage, "Digest", "must be 32 bytes")
	}
	return nil
}

func (a UpgradePackage) call() (callSpec, error) {
	return callSpec{
		module: modulePackage,
		name:   "upgrade_package",
		args: []ledger.CallArg{
			ledger.PureString(a.Name),
			ledger.PureBytes(a.Digest),
		},
	}, nil
}

// UpgradePolicy values accepted by RestrictPackage, in decreasing
// permissiveness. Restriction is one-way on the ledger side.
const (
	PolicyCompatible uint8 = 0
	PolicyAdditive   uint8 = 128
	PolicyDepsOnly   uint8 = 192
	PolicyImmutable  uint8 = 255
)

// RestrictPackage tightens the package's upgrade policy.
type RestrictPackage struct {
	Name   string
	Policy uint8
}

func (RestrictPackage) Kind() Kind { return KindRestrictPackage }

func (a RestrictPackage) validate() error {
	if a.Name == "" {
		return missing(KindRestrictPackage, "Name")
	}
	switch a.Policy {
	case PolicyCompatible, PolicyAdditive, PolicyDepsOnly, PolicyImmutable:
		return nil
	}
	return invalid(KindRestrictPackage, "Policy", "unknown upgrade policy")
}

func (a RestrictPackage) call() (callSpec, error) {
	return callSpec{
		module: modulePackage,
		name:   "restrict_package",
		args: []ledger.CallArg{
			ledger.PureString(a.Name),
			ledger.PureU8(a.Policy),
		},
	}, nil
}

// AcceptUpgradeCap takes custody of a package's upgrade capability.
type AcceptUpgradeCap struct {
	Name  string
	CapID ledger.ObjectID
}

func (AcceptUpgradeCap) Kind() Kind { return KindAcceptUpgradeCap }

func (a AcceptUpgradeCap) validate() error {
	if a.Name == "" {
		return missing(KindAcceptUpgradeCap, "Name")
	}
	if a.CapID == zeroObjectID {
		return missing(KindAcceptUpgradeCap, "CapID")
	}
	return nil
}

func (a AcceptUpgradeCap) call() (callSpec, error) {
	return callSpec{
		module: modulePackage,
		name:   "accept_upgrade_cap",
		args: []ledger.CallArg{
			ledger.PureString(a.Name),
			ledger.PureObjectID(a.CapID),
		},
	}, nil
}

// CommitUpgrade finishes an authorized upgrade.
type CommitUpgrade struct {
	Name string
}

func (CommitUpgrade) Kind() Kind { return KindCommitUpgrade }

func (a CommitUpgrade) validate() error {
	if a.Name == "" {
		return missing(KindCommitUpgrade, "Name")
	}
	return nil
}

func (a CommitUpgrade) call() (callSpec, error) {
	return callSpec{
		module: modulePackage,
		name:   "commit_upgrade",
		args:   []ledger.CallArg{ledger.PureString(a.Name)},
	}, nil
}

// AddCouncilMember adds a security-council member.
type AddCouncilMember struct {
	Member ledger.Address
}

func (AddCouncilMember) Kind() Kind { return KindAddCouncilMember }

func (a AddCouncilMember) validate() error {
	if a.Member == zeroAddress {
		return missing(KindAddCouncilMember, "Member")
	}
	return nil
}

func (a AddCouncilMember) call() (callSpec, error) {
	return callSpec{
		module: moduleCouncil,
		name:   "add_council_member",
		args:   []ledger.CallArg{ledger.PureAddress(a.Member)},
	}, nil
}

// RemoveCouncilMember removes a member.
type RemoveCouncilMember struct {
	Member ledger.Address
}

func (RemoveCouncilMember) Kind() Kind { return KindRemoveCouncilMember }

func (a RemoveCouncilMember) validate() error {
	if a.Member == zeroAddress {
		return missing(KindRemoveCouncilMember, "Member")
	}
	return nil
}

func (a RemoveCouncilMember) call() (callSpec, error) {
	return callSpec{
		module: moduleCouncil,
		name:   "remove_council_member",
		args:   []ledger.CallArg{ledger.PureAddress(a.Member)},
	}, nil
}

// UpdateCouncilThreshold changes the approvals required for council
// operations.
type UpdateCouncilThreshold struct {
	Threshold uint64
}

func (UpdateCouncilThreshold) Kind() Kind { return KindUpdateCouncilThreshold }

func (a UpdateCouncilThreshold) validate() error {
	if a.Threshold == 0 {
		return invalid(KindUpdateCouncilThreshold, "Threshold", "must be positive")
	}
	return nil
}

func (a UpdateCouncilThreshold) call() (callSpec, error) {
	return callSpec{
		module: moduleCouncil,
		name:   "update_council_threshold",
		args:   []ledger.CallArg{ledger.PureU64(a.Threshold)},
	}, nil
}
