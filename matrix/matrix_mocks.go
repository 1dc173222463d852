// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package matrix

import (
	reflect "reflect"

	gomock "go.uber.org/mock/gomock"
)

// MockMatrix is a mock of Matrix interface.
type MockMatrix struct {
	ctrl     *gomock.Controller
	recorder *MockMatrixMockRecorder
}

// MockMatrixMockRecorder is the mock recorder for MockMatrix.
type MockMatrixMockRecorder struct {
	mock *MockMatrix
}

// NewMockMatrix creates a new mock instance.
func NewMockMatrix(ctrl *gomock.Controller) *MockMatrix {
	mock := &MockMatrix{ctrl: ctrl}
	mock.recorder = &MockMatrixMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockMatrix) EXPECT() *MockMatrixMockRecorder {
	return m.recorder
}

// Dimensions mocks base method.
func (m *MockMatrix) Dimensions() (int, int) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Dimensions")
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(int)
	return ret0, ret1
}

// Dimensions indicates an expected call of Dimensions.
func (mr *MockMatrixMockRecorder) Dimensions() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Dimensions", reflect.TypeOf((*MockMatrix)(nil).Dimensions))
}

// GetCell mocks base method.
func (m *MockMatrix) GetCell(i int, j int) (float64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetCell", i, j)
	ret0, _ := ret[0].(float64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetCell indicates an expected call of GetCell.
func (mr *MockMatrixMockRecorder) GetCell(i, j any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetCell", reflect.TypeOf((*MockMatrix)(nil).GetCell), i, j)
}

// GetRow mocks base method.
func (m *MockMatrix) GetRow(i int) (*SparseRow, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetRow", i)
	ret0, _ := ret[0].(*SparseRow)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetRow indicates an expected call of GetRow.
func (mr *MockMatrixMockRecorder) GetRow(i any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetRow", reflect.TypeOf((*MockMatrix)(nil).GetRow), i)
}

// Identity mocks base method.
func (m *MockMatrix) Identity() string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Identity")
	ret0, _ := ret[0].(string)
	return ret0
}

// Identity indicates an expected call of Identity.
func (mr *MockMatrixMockRecorder) Identity() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Identity", reflect.TypeOf((*MockMatrix)(nil).Identity))
}

// Norm mocks base method.
func (m *MockMatrix) Norm(kind NormKind) (float64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Norm", kind)
	ret0, _ := ret[0].(float64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Norm indicates an expected call of Norm.
func (mr *MockMatrixMockRecorder) Norm(kind any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Norm", reflect.TypeOf((*MockMatrix)(nil).Norm), kind)
}

// SetCell mocks base method.
func (m *MockMatrix) SetCell(i int, j int, value float64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetCell", i, j, value)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetCell indicates an expected call of SetCell.
func (mr *MockMatrixMockRecorder) SetCell(i, j, value any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetCell", reflect.TypeOf((*MockMatrix)(nil).SetCell), i, j, value)
}

// SetRow mocks base method.
func (m *MockMatrix) SetRow(i int, row *SparseRow) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetRow", i, row)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetRow indicates an expected call of SetRow.
func (mr *MockMatrixMockRecorder) SetRow(i, row any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetRow", reflect.TypeOf((*MockMatrix)(nil).SetRow), i, row)
}

// Type mocks base method.
func (m *MockMatrix) Type() string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Type")
	ret0, _ := ret[0].(string)
	return ret0
}

// Type indicates an expected call of Type.
func (mr *MockMatrixMockRecorder) Type() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Type", reflect.TypeOf((*MockMatrix)(nil).Type))
}
