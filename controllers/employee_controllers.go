package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-manager/models"
	"github.com/yeremiapane/restaurant-manager/services"
	"github.com/yeremiapane/restaurant-manager/utils"
)

var employeeKinds = []models.PersonKind{models.KindServer, models.KindCook, models.KindManager}

type EmployeeController struct {
	People *services.PersonService
}

func NewEmployeeController(people *services.PersonService) *EmployeeController {
	return &EmployeeController{People: people}
}

func (ec *EmployeeController) GetAllEmployees(c *gin.Context) {
	ec.list(c, "List of employees", employeeKinds...)
}

func (ec *EmployeeController) GetServers(c *gin.Context) {
	ec.list(c, "List of servers", models.KindServer)
}

func (ec *EmployeeController) GetCooks(c *gin.Context) {
	ec.list(c, "List of cooks", models.KindCook)
}

func (ec *EmployeeController) GetManagers(c *gin.Context) {
	ec.list(c, "List of managers", models.KindManager)
}

func (ec *EmployeeController) list(c *gin.Context, message string, kinds ...models.PersonKind) {
	people, err := ec.People.List(c.Request.Context(), kinds...)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, message, people)
}

func (ec *EmployeeController) GetEmployee(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	employee, err := ec.People.Get(c.Request.Context(), id, employeeKinds...)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Employee details", employee)
}

// CreateEmployee returns a handler creating an employee of one kind.
func (ec *EmployeeController) CreateEmployee(kind models.PersonKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.PersonInput
		if !bindJSON(c, &req) {
			return
		}
		employee, err := ec.People.Create(c.Request.Context(), kind, req)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.InfoLogger.Printf("New %s hired: %s", kind, employee.FullName())
		utils.RespondCreated(c, fmt.Sprintf("/api/employees/%d", employee.ID), "Employee created successfully", employee)
	}
}

func (ec *EmployeeController) UpdateEmployee(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.PersonInput
	if !bindJSON(c, &req) {
		return
	}
	employee, err := ec.People.Update(c.Request.Context(), id, employeeKinds, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Employee updated", employee)
}

func (ec *EmployeeController) DeleteEmployee(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ec.People.Delete(c.Request.Context(), id, employeeKinds...); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Employee deleted", nil)
}

func (ec *EmployeeController) GetEmployeePlanning(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	shifts, err := ec.People.EmployeePlanning(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Employee planning", shifts)
}
