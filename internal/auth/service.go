package auth

import (
	"context"
	"strings"
	"time"

	"OliaRewards/internal/apperr"
	"OliaRewards/internal/config"
	"OliaRewards/internal/rules"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const tokenLifetime = 7 * 24 * time.Hour

// CitizenStore is the persistence surface the account service needs for
// citizens. *CitizenRepository satisfies it.
type CitizenStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*Citizen, error)
	FindByEmail(ctx context.Context, email string) (*Citizen, error)
	FindByCPF(ctx context.Context, cpf string) (*Citizen, error)
	Insert(ctx context.Context, citizen *Citizen) error
	UpdateProfile(ctx context.Context, id primitive.ObjectID, set bson.M) error
}

// SchoolStore is the persistence surface for schools. *SchoolRepository
// satisfies it.
type SchoolStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*School, error)
	FindByEmail(ctx context.Context, email string) (*School, error)
	FindByCNPJ(ctx context.Context, cnpj string) (*School, error)
	Insert(ctx context.Context, school *School) error
	UpdateProfile(ctx context.Context, id primitive.ObjectID, set bson.M) error
	TopByPoints(ctx context.Context, limit int64) ([]*School, error)
	ListActive(ctx context.Context, city, neighborhood string) ([]*School, error)
}

type GovernmentStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*Government, error)
	FindByEmail(ctx context.Context, email string) (*Government, error)
}

// Geocoder resolves an address to a coordinate, or nil when it cannot.
type Geocoder interface {
	Lookup(ctx context.Context, address string) *config.Coordinate
}

type AccountService struct {
	citizens    CitizenStore
	schools     SchoolStore
	governments GovernmentStore
	geocoder    Geocoder
}

func NewAccountService(citizens CitizenStore, schools SchoolStore, governments GovernmentStore, geocoder Geocoder) *AccountService {
	return &AccountService{citizens: citizens, schools: schools, governments: governments, geocoder: geocoder}
}

func fullAddress(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

func (s *AccountService) RegisterCitizen(ctx context.Context, req RegisterCitizenRequest) (*Citizen, string, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, "", apperr.Invalid("Name, email and password are required")
	}

	existing, err := s.citizens.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", apperr.Invalid("Email already registered")
	}
	if req.CPF != "" {
		byCPF, err := s.citizens.FindByCPF(ctx, req.CPF)
		if err != nil {
			return nil, "", err
		}
		if byCPF != nil {
			return nil, "", apperr.Invalid("CPF already registered")
		}
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	citizen := &Citizen{
		ID:           primitive.NewObjectID(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		CPF:          req.CPF,
		Phone:        req.Phone,
		Address:      req.Address,
		Neighborhood: req.Neighborhood,
		City:         req.City,
		BenefitCard:  req.BenefitCard,
		HasBenefit:   req.HasBenefit,
		Level:        1,
		CreatedAt:    time.Now(),
	}

	if coord := s.geocoder.Lookup(ctx, fullAddress(req.Address, req.Neighborhood, req.City)); coord != nil {
		citizen.Lat = &coord.Lat
		citizen.Lng = &coord.Lng
	}

	if err := s.citizens.Insert(ctx, citizen); err != nil {
		return nil, "", err
	}

	token, err := GenerateJWT(citizen.ID.Hex(), RoleCitizen, citizen.Email, tokenLifetime)
	if err != nil {
		return nil, "", err
	}
	return citizen, token, nil
}

func (s *AccountService) RegisterSchool(ctx context.Context, req RegisterSchoolRequest) (*School, string, error) {
	if req.SchoolName == "" || req.Email == "" || req.Password == "" || req.CNPJ == "" {
		return nil, "", apperr.Invalid("School name, CNPJ, email and password are required")
	}

	existing, err := s.schools.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", apperr.Invalid("Email already registered")
	}
	byCNPJ, err := s.schools.FindByCNPJ(ctx, req.CNPJ)
	if err != nil {
		return nil, "", err
	}
	if byCNPJ != nil {
		return nil, "", apperr.Invalid("CNPJ already registered")
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	school := &School{
		ID:               primitive.NewObjectID(),
		Name:             req.SchoolName,
		CNPJ:             req.CNPJ,
		Email:            req.Email,
		PasswordHash:     hash,
		Address:          req.Address,
		Neighborhood:     req.Neighborhood,
		City:             req.City,
		ResponsibleName:  req.ResponsibleName,
		ResponsiblePhone: req.ResponsiblePhone,
		ResponsibleEmail: req.ResponsibleEmail,
		StorageCapacity:  req.StorageCapacity,
		IsActive:         true,
		CreatedAt:        time.Now(),
	}

	if coord := s.geocoder.Lookup(ctx, fullAddress(req.Address, req.Neighborhood, req.City)); coord != nil {
		school.Lat = &coord.Lat
		school.Lng = &coord.Lng
		if coord.Neighborhood != "" {
			school.Neighborhood = coord.Neighborhood
		}
		if coord.City != "" {
			school.City = coord.City
		}
	}

	if err := s.schools.Insert(ctx, school); err != nil {
		return nil, "", err
	}

	token, err := GenerateJWT(school.ID.Hex(), RoleSchool, school.Email, tokenLifetime)
	if err != nil {
		return nil, "", err
	}
	return school, token, nil
}

// Login authenticates any of the three account kinds and returns the
// sanitized account, its role and a bearer token.
func (s *AccountService) Login(ctx context.Context, cred Credential) (interface{}, string, string, error) {
	if cred.Email == "" || cred.Password == "" || cred.UserType == "" {
		return nil, "", "", apperr.Invalid("Email, password and user type are required")
	}

	var (
		account interface{}
		hash    string
		id      primitive.ObjectID
		role    string
	)

	switch cred.UserType {
	case RoleCitizen, "user":
		citizen, err := s.citizens.FindByEmail(ctx, cred.Email)
		if err != nil {
			return nil, "", "", err
		}
		if citizen == nil {
			return nil, "", "", apperr.Unauthenticated("Invalid credentials")
		}
		account, hash, id, role = citizen, citizen.PasswordHash, citizen.ID, RoleCitizen
	case RoleSchool:
		school, err := s.schools.FindByEmail(ctx, cred.Email)
		if err != nil {
			return nil, "", "", err
		}
		if school == nil {
			return nil, "", "", apperr.Unauthenticated("Invalid credentials")
		}
		account, hash, id, role = school, school.PasswordHash, school.ID, RoleSchool
	case RoleGovernment:
		government, err := s.governments.FindByEmail(ctx, cred.Email)
		if err != nil {
			return nil, "", "", err
		}
		if government == nil {
			return nil, "", "", apperr.Unauthenticated("Invalid credentials")
		}
		account, hash, id, role = government, government.PasswordHash, government.ID, RoleGovernment
	default:
		return nil, "", "", apperr.Invalid("Unknown user type")
	}

	if !CheckPasswordHash(cred.Password, hash) {
		return nil, "", "", apperr.Unauthenticated("Invalid credentials")
	}

	token, err := GenerateJWT(id.Hex(), role, cred.Email, tokenLifetime)
	if err != nil {
		return nil, "", "", err
	}
	return account, role, token, nil
}

// Me resolves the bearer token back to its account record.
func (s *AccountService) Me(ctx context.Context, claims *JWTClaims) (interface{}, error) {
	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return nil, apperr.Unauthenticated("Invalid token subject")
	}

	switch claims.Role {
	case RoleCitizen:
		citizen, err := s.citizens.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if citizen == nil {
			return nil, apperr.NotFound("Account not found")
		}
		return citizen, nil
	case RoleSchool:
		school, err := s.schools.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if school == nil {
			return nil, apperr.NotFound("Account not found")
		}
		return school, nil
	case RoleGovernment:
		government, err := s.governments.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if government == nil {
			return nil, apperr.NotFound("Account not found")
		}
		return government, nil
	}
	return nil, apperr.Unauthenticated("Unknown role")
}

func (s *AccountService) CitizenProfile(ctx context.Context, id primitive.ObjectID) (*Citizen, error) {
	citizen, err := s.citizens.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if citizen == nil {
		return nil, apperr.NotFound("Citizen not found")
	}
	return citizen, nil
}

func (s *AccountService) UpdateCitizenProfile(ctx context.Context, id primitive.ObjectID, req UpdateCitizenProfileRequest) (*Citizen, error) {
	existing, err := s.citizens.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFound("Citizen not found")
	}

	set := bson.M{}
	setString := func(key string, v *string) {
		if v != nil && *v != "" {
			set[key] = *v
		}
	}
	setString("name", req.Name)
	setString("phone", req.Phone)
	setString("address", req.Address)
	setString("neighborhood", req.Neighborhood)
	setString("city", req.City)
	if req.BenefitCard != nil {
		set["benefit_card"] = *req.BenefitCard
	}
	if req.HasBenefit != nil {
		set["has_benefit"] = *req.HasBenefit
	}

	addressChanged := req.Address != nil || req.Neighborhood != nil || req.City != nil
	if addressChanged {
		resolved := existing.Address
		if req.Address != nil {
			resolved = *req.Address
		}
		neighborhood := existing.Neighborhood
		if req.Neighborhood != nil {
			neighborhood = *req.Neighborhood
		}
		city := existing.City
		if req.City != nil {
			city = *req.City
		}
		if coord := s.geocoder.Lookup(ctx, fullAddress(resolved, neighborhood, city)); coord != nil {
			set["lat"] = coord.Lat
			set["lng"] = coord.Lng
			if coord.Neighborhood != "" {
				set["neighborhood"] = coord.Neighborhood
			}
			if coord.City != "" {
				set["city"] = coord.City
			}
		}
	}

	if err := s.citizens.UpdateProfile(ctx, id, set); err != nil {
		return nil, err
	}
	return s.CitizenProfile(ctx, id)
}

func (s *AccountService) CitizenStatistics(ctx context.Context, id primitive.ObjectID) (*CitizenStats, error) {
	citizen, err := s.CitizenProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	next, progress := rules.NextCitizenReward(citizen.TotalLiters)
	return &CitizenStats{
		TotalLiters:   citizen.TotalLiters,
		RewardsEarned: citizen.RewardsEarned,
		CO2Saved:      citizen.CO2Saved,
		Level:         citizen.Level,
		NextReward:    next,
		Progress:      progress,
	}, nil
}

func (s *AccountService) SchoolProfile(ctx context.Context, id primitive.ObjectID) (*School, error) {
	school, err := s.schools.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if school == nil {
		return nil, apperr.NotFound("School not found")
	}
	return school, nil
}

func (s *AccountService) UpdateSchoolProfile(ctx context.Context, id primitive.ObjectID, req UpdateSchoolProfileRequest) (*School, error) {
	existing, err := s.schools.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFound("School not found")
	}

	set := bson.M{}
	setString := func(key string, v *string) {
		if v != nil && *v != "" {
			set[key] = *v
		}
	}
	setString("name", req.Name)
	setString("address", req.Address)
	setString("neighborhood", req.Neighborhood)
	setString("city", req.City)
	setString("responsible_name", req.ResponsibleName)
	setString("responsible_phone", req.ResponsiblePhone)
	setString("responsible_email", req.ResponsibleEmail)
	setString("storage_capacity", req.StorageCapacity)
	if req.Lat != nil {
		set["lat"] = *req.Lat
	}
	if req.Lng != nil {
		set["lng"] = *req.Lng
	}

	if err := s.schools.UpdateProfile(ctx, id, set); err != nil {
		return nil, err
	}
	return s.SchoolProfile(ctx, id)
}

func (s *AccountService) SchoolStatistics(ctx context.Context, id primitive.ObjectID) (*SchoolStats, error) {
	school, err := s.SchoolProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	next, progress := rules.NextSchoolReward(school.Points)
	return &SchoolStats{
		TotalLiters:     school.TotalLiters,
		CollectionCount: school.CollectionCount,
		Points:          school.Points,
		Capacity:        school.Capacity,
		NextReward:      next,
		Progress:        progress,
	}, nil
}

// SchoolRanking returns the top-10 leaderboard and the caller's position in
// it, nil when the caller is outside the top 10.
func (s *AccountService) SchoolRanking(ctx context.Context, id primitive.ObjectID) ([]RankedSchool, *int, error) {
	top, err := s.schools.TopByPoints(ctx, 10)
	if err != nil {
		return nil, nil, err
	}

	ranking := make([]RankedSchool, 0, len(top))
	var currentRank *int
	for i, school := range top {
		position := i + 1
		ranking = append(ranking, RankedSchool{
			ID:       school.ID,
			Name:     school.Name,
			Points:   school.Points,
			Position: position,
		})
		if school.ID == id {
			rank := position
			currentRank = &rank
		}
	}
	return ranking, currentRank, nil
}

// PublicSchools is the unauthenticated list used by the map display.
func (s *AccountService) PublicSchools(ctx context.Context, city, neighborhood string) ([]PublicSchool, error) {
	schools, err := s.schools.ListActive(ctx, city, neighborhood)
	if err != nil {
		return nil, err
	}
	public := make([]PublicSchool, 0, len(schools))
	for _, school := range schools {
		public = append(public, PublicSchool{
			ID:           school.ID,
			Name:         school.Name,
			Address:      school.Address,
			Neighborhood: school.Neighborhood,
			City:         school.City,
			Lat:          school.Lat,
			Lng:          school.Lng,
			Capacity:     school.Capacity,
		})
	}
	return public, nil
}
