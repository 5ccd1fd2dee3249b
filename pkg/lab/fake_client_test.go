package lab

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/awillows/win365-lab-builder/client"
	"github.com/awillows/win365-lab-builder/client/query"
	"github.com/awillows/win365-lab-builder/client/rest"
	"github.com/awillows/win365-lab-builder/models/azure"
)

// fakeGraphClient is an in-memory tenant. Every mutating call is appended to
// ops ("CreateUser lab001@contoso.com"), so tests can assert both outcomes
// and call ordering.
type fakeGraphClient struct {
	mu  sync.Mutex
	ops []string

	domain      string
	users       map[string]azure.User // keyed by UPN
	groups      map[string]azure.Group // keyed by display name
	policies    map[string]azure.ProvisioningPolicy // keyed by display name
	settings    map[string]azure.CloudPcUserSetting // keyed by display name
	skus        []azure.SubscribedSku
	cloudPCs    []azure.CloudPC
	members     map[string][]string // group id -> member ids
	assignments map[string][]string // policy id -> group ids
	licenses    map[string][]azure.AssignedLicense // group id -> licenses

	// errOn injects a failure into the named method.
	errOn map[string]error
}

func newFakeGraphClient() *fakeGraphClient {
	return &fakeGraphClient{
		domain:      "contoso.com",
		users:       make(map[string]azure.User),
		groups:      make(map[string]azure.Group),
		policies:    make(map[string]azure.ProvisioningPolicy),
		settings:    make(map[string]azure.CloudPcUserSetting),
		members:     make(map[string][]string),
		assignments: make(map[string][]string),
		licenses:    make(map[string][]azure.AssignedLicense),
		errOn:       make(map[string]error),
	}
}

var _ client.GraphClient = (*fakeGraphClient)(nil)

func notFound() error {
	return &rest.GraphError{StatusCode: http.StatusNotFound, Code: "Request_ResourceNotFound"}
}

func (s *fakeGraphClient) record(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append(s.ops, op)
}

func (s *fakeGraphClient) opsWithPrefix(prefix string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []string
	for _, op := range s.ops {
		if strings.HasPrefix(op, prefix) {
			matched = append(matched, op)
		}
	}
	return matched
}

// firstOpIndex returns the position of the first op with the prefix, or -1.
func (s *fakeGraphClient) firstOpIndex(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, op := range s.ops {
		if strings.HasPrefix(op, prefix) {
			return i
		}
	}
	return -1
}

func (s *fakeGraphClient) seedUser(upn string) azure.User {
	user := azure.User{
		Entity:            azure.Entity{ID: uuid.NewString()},
		AccountEnabled:    true,
		UserPrincipalName: upn,
		DisplayName:       strings.SplitN(upn, "@", 2)[0],
	}
	s.users[upn] = user
	return user
}

func (s *fakeGraphClient) seedGroup(name string) azure.Group {
	group := azure.Group{
		Entity:          azure.Entity{ID: uuid.NewString()},
		DisplayName:     name,
		SecurityEnabled: true,
	}
	s.groups[name] = group
	return group
}

func (s *fakeGraphClient) seedPolicy(name string) azure.ProvisioningPolicy {
	policy := azure.ProvisioningPolicy{
		Entity:      azure.Entity{ID: uuid.NewString()},
		DisplayName: name,
	}
	s.policies[name] = policy
	return policy
}

func stream[T any](items []T) <-chan client.GraphResult[T] {
	out := make(chan client.GraphResult[T], len(items))
	for _, item := range items {
		out <- client.GraphResult[T]{Ok: item}
	}
	close(out)
	return out
}

func (s *fakeGraphClient) CreateUser(ctx context.Context, user azure.NewUser) (*azure.User, error) {
	if err := s.errOn["CreateUser"]; err != nil {
		return nil, err
	}
	s.record("CreateUser " + user.UserPrincipalName)
	s.mu.Lock()
	defer s.mu.Unlock()
	created := azure.User{
		Entity:            azure.Entity{ID: uuid.NewString()},
		AccountEnabled:    user.AccountEnabled,
		DisplayName:       user.DisplayName,
		MailNickname:      user.MailNickname,
		UserPrincipalName: user.UserPrincipalName,
		UsageLocation:     user.UsageLocation,
	}
	s.users[user.UserPrincipalName] = created
	return &created, nil
}

func (s *fakeGraphClient) GetUserByPrincipalName(ctx context.Context, upn string) (*azure.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.users[upn]; ok {
		return &user, nil
	}
	return nil, notFound()
}

func (s *fakeGraphClient) DeleteUser(ctx context.Context, id string) error {
	if err := s.errOn["DeleteUser"]; err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for upn, user := range s.users {
		if user.ID == id {
			s.ops = append(s.ops, "DeleteUser "+upn)
			delete(s.users, upn)
			return nil
		}
	}
	return notFound()
}

func (s *fakeGraphClient) ListUsers(ctx context.Context, params query.GraphParams) <-chan client.GraphResult[azure.User] {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Supports only the startswith filter the lab layer emits.
	prefix := ""
	if f := params.Filter; strings.HasPrefix(f, "startswith(userPrincipalName,'") {
		prefix = strings.TrimSuffix(strings.TrimPrefix(f, "startswith(userPrincipalName,'"), "')")
	}
	var users []azure.User
	for upn, user := range s.users {
		if prefix == "" || strings.HasPrefix(upn, prefix) {
			users = append(users, user)
		}
	}
	return stream(users)
}

func (s *fakeGraphClient) CreateGroup(ctx context.Context, group azure.NewGroup) (*azure.Group, error) {
	if err := s.errOn["CreateGroup"]; err != nil {
		return nil, err
	}
	s.record("CreateGroup " + group.DisplayName)
	s.mu.Lock()
	defer s.mu.Unlock()
	created := azure.Group{
		Entity:          azure.Entity{ID: uuid.NewString()},
		DisplayName:     group.DisplayName,
		Description:     group.Description,
		MailNickname:    group.MailNickname,
		SecurityEnabled: group.SecurityEnabled,
	}
	s.groups[group.DisplayName] = created
	return &created, nil
}

func (s *fakeGraphClient) GetGroup(ctx context.Context, id string) (*azure.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, group := range s.groups {
		if group.ID == id {
			return &group, nil
		}
	}
	return nil, notFound()
}

func (s *fakeGraphClient) GetGroupByName(ctx context.Context, displayName string) (*azure.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if group, ok := s.groups[displayName]; ok {
		return &group, nil
	}
	return nil, nil
}

func (s *fakeGraphClient) DeleteGroup(ctx context.Context, id string) error {
	if err := s.errOn["DeleteGroup"]; err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, group := range s.groups {
		if group.ID == id {
			s.ops = append(s.ops, "DeleteGroup "+name)
			delete(s.groups, name)
			return nil
		}
	}
	return notFound()
}

func (s *fakeGraphClient) ListGroups(ctx context.Context, params query.GraphParams) <-chan client.GraphResult[azure.Group] {
	s.mu.Lock()
	defer s.mu.Unlock()
	var groups []azure.Group
	for _, group := range s.groups {
		groups = append(groups, group)
	}
	return stream(groups)
}

func (s *fakeGraphClient) AddGroupMember(ctx context.Context, groupId, memberId string) error {
	if err := s.errOn["AddGroupMember"]; err != nil {
		return err
	}
	s.record("AddGroupMember " + groupId + " " + memberId)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[groupId] = append(s.members[groupId], memberId)
	return nil
}

func (s *fakeGraphClient) ListGroupMembers(ctx context.Context, groupId string, params query.GraphParams) <-chan client.GraphResult[azure.DirectoryObject] {
	s.mu.Lock()
	defer s.mu.Unlock()
	var members []azure.DirectoryObject
	for _, id := range s.members[groupId] {
		members = append(members, azure.DirectoryObject{ID: id})
	}
	return stream(members)
}

func (s *fakeGraphClient) GetGroupAssignedLicenses(ctx context.Context, groupId string) ([]azure.AssignedLicense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.licenses[groupId], nil
}

func (s *fakeGraphClient) AssignGroupLicense(ctx context.Context, groupId string, add []azure.AssignedLicense, remove []uuid.UUID) error {
	if err := s.errOn["AssignGroupLicense"]; err != nil {
		return err
	}
	s.record("AssignGroupLicense " + groupId)
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.licenses[groupId]
	for _, id := range remove {
		for i, license := range current {
			if license.SkuID == id {
				current = append(current[:i], current[i+1:]...)
				break
			}
		}
	}
	s.licenses[groupId] = append(current, add...)
	return nil
}

func (s *fakeGraphClient) ListSubscribedSkus(ctx context.Context, params query.GraphParams) <-chan client.GraphResult[azure.SubscribedSku] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return stream(s.skus)
}

func (s *fakeGraphClient) CreateProvisioningPolicy(ctx context.Context, policy azure.NewProvisioningPolicy) (*azure.ProvisioningPolicy, error) {
	if err := s.errOn["CreateProvisioningPolicy"]; err != nil {
		return nil, err
	}
	s.record("CreateProvisioningPolicy " + policy.DisplayName)
	s.mu.Lock()
	defer s.mu.Unlock()
	created := azure.ProvisioningPolicy{
		Entity:                   azure.Entity{ID: uuid.NewString()},
		DisplayName:              policy.DisplayName,
		Description:              policy.Description,
		ProvisioningType:         policy.ProvisioningType,
		ImageID:                  policy.ImageID,
		ImageType:                policy.ImageType,
		EnableSingleSignOn:       policy.EnableSingleSignOn,
		DomainJoinConfigurations: policy.DomainJoinConfigurations,
		WindowsSetting:           policy.WindowsSetting,
	}
	s.policies[policy.DisplayName] = created
	return &created, nil
}

func (s *fakeGraphClient) GetProvisioningPolicy(ctx context.Context, id string, expandAssignments bool) (*azure.ProvisioningPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, policy := range s.policies {
		if policy.ID == id {
			return &policy, nil
		}
	}
	return nil, notFound()
}

func (s *fakeGraphClient) GetProvisioningPolicyByName(ctx context.Context, displayName string) (*azure.ProvisioningPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if policy, ok := s.policies[displayName]; ok {
		return &policy, nil
	}
	return nil, nil
}

func (s *fakeGraphClient) ListProvisioningPolicies(ctx context.Context, params query.GraphParams) <-chan client.GraphResult[azure.ProvisioningPolicy] {
	s.mu.Lock()
	defer s.mu.Unlock()
	var policies []azure.ProvisioningPolicy
	for _, policy := range s.policies {
		policies = append(policies, policy)
	}
	return stream(policies)
}

func (s *fakeGraphClient) DeleteProvisioningPolicy(ctx context.Context, id string) error {
	if err := s.errOn["DeleteProvisioningPolicy"]; err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, policy := range s.policies {
		if policy.ID == id {
			s.ops = append(s.ops, "DeleteProvisioningPolicy "+name)
			delete(s.policies, name)
			return nil
		}
	}
	return notFound()
}

func (s *fakeGraphClient) SetProvisioningPolicyAssignment(ctx context.Context, policyId, groupId string) (bool, error) {
	if err := s.errOn["SetProvisioningPolicyAssignment"]; err != nil {
		return false, err
	}
	s.mu.Lock()
	for _, assigned := range s.assignments[policyId] {
		if assigned == groupId {
			s.mu.Unlock()
			return false, nil
		}
	}
	s.assignments[policyId] = append(s.assignments[policyId], groupId)
	s.mu.Unlock()
	s.record("SetProvisioningPolicyAssignment " + policyId + " " + groupId)
	return true, nil
}

func (s *fakeGraphClient) ClearProvisioningPolicyAssignments(ctx context.Context, policyId string) error {
	if err := s.errOn["ClearProvisioningPolicyAssignments"]; err != nil {
		return err
	}
	s.record("ClearProvisioningPolicyAssignments " + policyId)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.assignments, policyId)
	return nil
}

func (s *fakeGraphClient) CreateUserSetting(ctx context.Context, setting azure.NewCloudPcUserSetting) (*azure.CloudPcUserSetting, error) {
	if err := s.errOn["CreateUserSetting"]; err != nil {
		return nil, err
	}
	s.record("CreateUserSetting " + setting.DisplayName)
	s.mu.Lock()
	defer s.mu.Unlock()
	created := azure.CloudPcUserSetting{
		Entity:              azure.Entity{ID: uuid.NewString()},
		DisplayName:         setting.DisplayName,
		Description:         setting.Description,
		LocalAdminEnabled:   setting.LocalAdminEnabled,
		SelfServiceEnabled:  setting.SelfServiceEnabled,
		RestorePointSetting: setting.RestorePointSetting,
	}
	s.settings[setting.DisplayName] = created
	return &created, nil
}

func (s *fakeGraphClient) GetUserSetting(ctx context.Context, id string, expandAssignments bool) (*azure.CloudPcUserSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, setting := range s.settings {
		if setting.ID == id {
			return &setting, nil
		}
	}
	return nil, notFound()
}

func (s *fakeGraphClient) GetUserSettingByName(ctx context.Context, displayName string) (*azure.CloudPcUserSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if setting, ok := s.settings[displayName]; ok {
		return &setting, nil
	}
	return nil, nil
}

func (s *fakeGraphClient) ListUserSettings(ctx context.Context, params query.GraphParams) <-chan client.GraphResult[azure.CloudPcUserSetting] {
	s.mu.Lock()
	defer s.mu.Unlock()
	var settings []azure.CloudPcUserSetting
	for _, setting := range s.settings {
		settings = append(settings, setting)
	}
	return stream(settings)
}

func (s *fakeGraphClient) DeleteUserSetting(ctx context.Context, id string) error {
	if err := s.errOn["DeleteUserSetting"]; err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, setting := range s.settings {
		if setting.ID == id {
			s.ops = append(s.ops, "DeleteUserSetting "+name)
			delete(s.settings, name)
			return nil
		}
	}
	return notFound()
}

func (s *fakeGraphClient) SetUserSettingAssignment(ctx context.Context, settingId string, groupIds []string) error {
	if err := s.errOn["SetUserSettingAssignment"]; err != nil {
		return err
	}
	s.record("SetUserSettingAssignment " + settingId)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments[settingId] = append([]string(nil), groupIds...)
	return nil
}

func (s *fakeGraphClient) ClearUserSettingAssignment(ctx context.Context, settingId string) error {
	return s.SetUserSettingAssignment(ctx, settingId, nil)
}

func (s *fakeGraphClient) ListCloudPCs(ctx context.Context, params query.GraphParams) <-chan client.GraphResult[azure.CloudPC] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return stream(s.cloudPCs)
}

func (s *fakeGraphClient) EndGracePeriod(ctx context.Context, cloudPcId string) error {
	if err := s.errOn["EndGracePeriod"]; err != nil {
		return err
	}
	s.record("EndGracePeriod " + cloudPcId)
	return nil
}

func (s *fakeGraphClient) TestConnection(ctx context.Context) bool { return true }

func (s *fakeGraphClient) DefaultDomain(ctx context.Context) (string, error) {
	return s.domain, nil
}

func (s *fakeGraphClient) CloseIdleConnections() {}
