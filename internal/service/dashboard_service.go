package service

import (
	"context"
	"fmt"

	"fleetcare/internal/model"
	"fleetcare/internal/repository"
	"fleetcare/internal/scope"
)

// DashboardPageSize is the fixed page size of each dashboard sub-list.
const DashboardPageSize = 5

// Sublist is one paginated section of the dashboard payload.
type Sublist[T any] struct {
	Items []T   `json:"items"`
	Page  int   `json:"page"`
	Total int64 `json:"total"`
}

// UserOption is a dropdown entry for identity selects.
type UserOption struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// MachineOption is a dropdown entry for machine selects.
type MachineOption struct {
	ID           uint   `json:"id"`
	SerialNumber string `json:"serial_number"`
}

// DashboardResponse is the combined view the original index page rendered:
// three visibility-filtered sub-lists, the public serial search outcome and
// the per-role dropdown option lists.
type DashboardResponse struct {
	Machines     Sublist[MachineResponse]     `json:"machines"`
	Maintenances Sublist[MaintenanceResponse] `json:"maintenances"`
	Complaints   Sublist[ComplaintResponse]   `json:"complaints"`

	Search *SerialSearchResult `json:"search,omitempty"`

	// Option lists are only populated for authenticated identities.
	MachineOptions          []MachineOption      `json:"machine_options,omitempty"`
	ServiceCompanyOptions   []UserOption         `json:"service_company_options,omitempty"`
	MaintenancePerformers   []UserOption         `json:"maintenance_performer_options,omitempty"`
	Catalogs                *repository.Catalogs `json:"catalogs,omitempty"`
}

// DashboardQuery carries the raw request parameters for the dashboard.
type DashboardQuery struct {
	Params       map[string]string // filter parameters, passed through as-is
	SerialSearch string            // exact serial lookup, empty = no search
	PageMachines int               // "page"
	PageMaint    int               // "page_m"
	PageComp     int               // "page_c"
}

// DashboardService assembles the combined fleet view. Anonymous callers get
// empty collections and a success outcome, never an error.
type DashboardService interface {
	Overview(ctx context.Context, ident scope.Identity, q DashboardQuery) (*DashboardResponse, error)
}

type dashboardService struct {
	machines     MachineService
	maintenances MaintenanceService
	complaints   ComplaintService
	catalogs     CatalogService
	machineRepo  repository.MachineRepository
	userRepo     repository.UserRepository
}

// NewDashboardService returns a new instance of DashboardService
func NewDashboardService(
	machines MachineService,
	maintenances MaintenanceService,
	complaints ComplaintService,
	catalogs CatalogService,
	machineRepo repository.MachineRepository,
	userRepo repository.UserRepository,
) DashboardService {
	return &dashboardService{
		machines:     machines,
		maintenances: maintenances,
		complaints:   complaints,
		catalogs:     catalogs,
		machineRepo:  machineRepo,
		userRepo:     userRepo,
	}
}

func pageOrFirst(p int) int {
	if p < 1 {
		return 1
	}
	return p
}

func (s *dashboardService) Overview(ctx context.Context, ident scope.Identity, q DashboardQuery) (*DashboardResponse, error) {
	res := &DashboardResponse{}

	pm := pageOrFirst(q.PageMachines)
	machines, totalMachines, err := s.machines.List(ctx, ident, q.Params, pm, DashboardPageSize)
	if err != nil {
		return nil, err
	}
	res.Machines = Sublist[MachineResponse]{Items: machines, Page: pm, Total: totalMachines}

	pt := pageOrFirst(q.PageMaint)
	maintenances, totalMaint, err := s.maintenances.List(ctx, ident, q.Params, pt, DashboardPageSize)
	if err != nil {
		return nil, err
	}
	res.Maintenances = Sublist[MaintenanceResponse]{Items: maintenances, Page: pt, Total: totalMaint}

	pc := pageOrFirst(q.PageComp)
	complaints, totalComp, err := s.complaints.List(ctx, ident, q.Params, pc, DashboardPageSize)
	if err != nil {
		return nil, err
	}
	res.Complaints = Sublist[ComplaintResponse]{Items: complaints, Page: pc, Total: totalComp}

	// The serial search is public: it answers even for anonymous callers.
	if q.SerialSearch != "" {
		search, err := s.machines.SearchBySerial(ctx, q.SerialSearch)
		if err != nil {
			return nil, err
		}
		res.Search = search
	}

	if !ident.Authenticated {
		return res, nil
	}

	visible, err := s.machineRepo.ListForFilter(ctx, ident)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch machine options: %w", err)
	}
	res.MachineOptions = make([]MachineOption, 0, len(visible))
	for _, m := range visible {
		res.MachineOptions = append(res.MachineOptions, MachineOption{ID: m.ID, SerialNumber: m.SerialNumber})
	}

	companies, err := s.userRepo.ServiceCompaniesFor(ctx, ident)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch service company options: %w", err)
	}
	res.ServiceCompanyOptions = toUserOptions(companies)

	performers, err := s.userRepo.MaintenancePerformersFor(ctx, ident)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch maintenance performer options: %w", err)
	}
	res.MaintenancePerformers = toUserOptions(performers)

	catalogs, err := s.catalogs.All(ctx)
	if err != nil {
		return nil, err
	}
	res.Catalogs = catalogs

	return res, nil
}

func toUserOptions(users []model.User) []UserOption {
	opts := make([]UserOption, 0, len(users))
	for _, u := range users {
		name := u.Name
		if name == "" {
			name = u.Username
		}
		opts = append(opts, UserOption{ID: u.ID, Name: name})
	}
	return opts
}
