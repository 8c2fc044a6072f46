// Copyright (c) 2025, The Skopos Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package kube

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/hpc-stack/skopos/pkg/config"
	"github.com/hpc-stack/skopos/pkg/stats"
)

func testNode(name string, cpus, gpus string, ready, cordoned bool) *corev1.Node {
	alloc := corev1.ResourceList{
		corev1.ResourceCPU:    resource.MustParse(cpus),
		corev1.ResourceMemory: resource.MustParse("64Gi"),
	}
	if gpus != "" {
		alloc[gpuResource] = resource.MustParse(gpus)
	}
	status := corev1.ConditionTrue
	if !ready {
		status = corev1.ConditionFalse
	}
	return &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Spec:       corev1.NodeSpec{Unschedulable: cordoned},
		Status: corev1.NodeStatus{
			Allocatable: alloc,
			Conditions:  []corev1.NodeCondition{{Type: corev1.NodeReady, Status: status}},
		},
	}
}

func testPod(name, ns, node string, phase corev1.PodPhase, cpu, gpu string) *corev1.Pod {
	req := corev1.ResourceList{corev1.ResourceCPU: resource.MustParse(cpu)}
	if gpu != "" {
		req[gpuResource] = resource.MustParse(gpu)
	}
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: ns},
		Spec: corev1.PodSpec{
			NodeName: node,
			Containers: []corev1.Container{
				{Name: "main", Resources: corev1.ResourceRequirements{Requests: req}},
			},
		},
		Status: corev1.PodStatus{Phase: phase},
	}
}

func testCollector(t *testing.T, objects ...runtime.Object) *Collector {
	t.Helper()
	cfg, err := config.Parse([]byte(`
systems:
  - name: k8s-gpu
    type: kube
    partitions:
      - name: gpu
        prefix: gpu-
      - name: cpu
        catch_all: true
`))
	require.NoError(t, err)
	return New(cfg.Systems[0], fake.NewSimpleClientset(objects...))
}

func TestCollect(t *testing.T) {
	c := testCollector(t,
		testNode("gpu-01", "64", "4", true, false),
		testNode("gpu-02", "64", "4", false, false),
		testNode("cn-01", "32", "", true, false),
		testNode("cn-02", "32", "", true, true),
		testPod("train", "team-a", "gpu-01", corev1.PodRunning, "8", "2"),
		testPod("queued", "team-b", "", corev1.PodPending, "4", ""),
		testPod("done", "team-a", "cn-01", corev1.PodSucceeded, "4", ""),
	)

	snap := c.Collect(context.Background())

	assert.Equal(t, "k8s-gpu", snap.System)
	require.Len(t, snap.Nodes.Partitions, 2)
	gpu, cpu := snap.Nodes.Partitions[0], snap.Nodes.Partitions[1]

	assert.Equal(t, 2, gpu.NodesTotal)
	assert.Equal(t, 1, gpu.NodesBusy)
	assert.Equal(t, 1, gpu.NodesDown, "not-ready node counts as down")
	assert.Equal(t, 8, gpu.GPUsTotal)
	assert.Equal(t, 6, gpu.GPUsFree, "2 of 8 GPUs requested")

	assert.Equal(t, 2, cpu.NodesTotal)
	assert.Equal(t, 1, cpu.NodesFree, "completed pod does not occupy the node")
	assert.Equal(t, 1, cpu.NodesReserved, "cordoned node is reserved")

	require.Len(t, snap.Nodes.Nodes, 4)
	var gpu01 stats.NodeRecord
	for _, rec := range snap.Nodes.Nodes {
		if rec.Name == "gpu-01" {
			gpu01 = rec
		}
	}
	assert.Equal(t, stats.NodeStateBusy, gpu01.State)
	assert.Equal(t, 56, gpu01.CPUsFree)
	assert.Equal(t, 1, gpu01.JobsTotal)

	assert.Equal(t, 1, snap.Jobs.Running)
	assert.Equal(t, 1, snap.Jobs.Pending)
	assert.Equal(t, 2, snap.Jobs.ActiveUsers, "one tenant per namespace")

	assert.NotNil(t, snap.Logins.Nodes)
	assert.NotNil(t, snap.Reservations.Reservations)
}

func TestCollectEmptyCluster(t *testing.T) {
	snap := testCollector(t).Collect(context.Background())

	require.Len(t, snap.Nodes.Partitions, 2)
	assert.Zero(t, snap.Nodes.Partitions[0].NodesTotal)
	assert.Zero(t, snap.Nodes.Partitions[0].GPUUtilPct, "no capacity means 0, not NaN")
	assert.Zero(t, snap.Jobs.Running)
}

func TestNodeRecordOvercommit(t *testing.T) {
	node := testNode("cn-09", "4", "", true, false)
	pods := []corev1.Pod{
		*testPod("a", "ns", "cn-09", corev1.PodRunning, "3", ""),
		*testPod("b", "ns", "cn-09", corev1.PodRunning, "3", ""),
	}

	rec := nodeRecord(node, pods)

	assert.Zero(t, rec.CPUsFree, "requests beyond capacity clamp free at 0")
	assert.Equal(t, 4, rec.CPUsTotal)
	assert.Equal(t, 2, rec.JobsRunning)
}
